package domain

import (
	"fmt"
	"time"
)

// DealStatus is the activation status of a deal, independent of its
// validity window.
type DealStatus string

const (
	DealStatusActive   DealStatus = "ACTIVE"
	DealStatusInactive DealStatus = "INACTIVE"
	DealStatusExpired  DealStatus = "EXPIRED"
)

// DiscountType says how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeAmount  DiscountType = "AMOUNT"
)

// DealType classifies a promotion.
type DealType string

const (
	DealTypeEarlybird DealType = "EARLYBIRD"
	DealTypeHappyHour DealType = "HAPPY_HOUR"
	DealTypeSpecial   DealType = "SPECIAL"
)

// EarlybirdDeal is a time-boxed promotion attached to a store.
type EarlybirdDeal struct {
	ID            string
	StoreID       string
	Title         string
	Description   string
	DiscountValue string
	DiscountType  DiscountType
	TimeWindow    string // e.g. "06:00-10:00"
	DisplayText   string
	Status        DealStatus
	DealType      DealType
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	IsActive      bool
	CreatedAt     time.Time
}

// Validate checks that the validity window is ordered.
func (d *EarlybirdDeal) Validate() error {
	if d.ValidFrom != nil && d.ValidUntil != nil && d.ValidFrom.After(*d.ValidUntil) {
		return fmt.Errorf("%w: deal valid_from must not be after valid_until", ErrInvalidArgument)
	}

	return nil
}

// IsCurrentlyValid reports whether the deal is ACTIVE, enabled, and now lies
// within [ValidFrom, ValidUntil]. A missing bound is unbounded.
func (d *EarlybirdDeal) IsCurrentlyValid(now time.Time) bool {
	if d.Status != DealStatusActive || !d.IsActive {
		return false
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return false
	}

	return true
}

// DiscountPercent returns the percentage for PERCENT deals with a numeric
// value.
func (d *EarlybirdDeal) DiscountPercent() (int, bool) {
	if d.DiscountType != DiscountTypePercent {
		return 0, false
	}

	return ParseDiscountPercent(d.DiscountValue)
}

// BestDeal picks the deal with the highest percentage discount. When no deal
// carries a numeric percentage the first deal wins. Ties keep input order.
func BestDeal(deals []EarlybirdDeal) *EarlybirdDeal {
	if len(deals) == 0 {
		return nil
	}

	best := 0
	bestPct := -1
	for i := range deals {
		if pct, ok := deals[i].DiscountPercent(); ok && pct > bestPct {
			best, bestPct = i, pct
		}
	}

	return &deals[best]
}

// DefaultMorningSaleLimit caps the morning sale listing.
const DefaultMorningSaleLimit = 20

// MorningSale is an active store with a currently valid deal, shown with its
// most recently created deal.
type MorningSale struct {
	StoreID     string
	StoreName   string
	RepImageURL string
	DealID      string
	DisplayText string
	DealCreated time.Time
}
