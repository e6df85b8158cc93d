// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// BusinessStatus is the operating state a store advertises.
type BusinessStatus string

const (
	BusinessStatusOpen24h   BusinessStatus = "OPEN_24H"
	BusinessStatusOpen      BusinessStatus = "OPEN"
	BusinessStatusPreparing BusinessStatus = "PREPARING"
	BusinessStatusClosed    BusinessStatus = "CLOSED"
	BusinessStatusBreakTime BusinessStatus = "BREAK_TIME"
	BusinessStatusHoliday   BusinessStatus = "HOLIDAY"
)

// Store is a local business that can be searched.
type Store struct {
	ID               string
	OwnerID          string
	CategoryID       string
	Name             string
	AIRecommendation string
	Phone            string
	Address          string

	Latitude  *float64
	Longitude *float64

	// External map-provider ids, numeric strings when present.
	KakaoPlaceID string
	NaverPlaceID string

	RepImageURL    string
	RatingAvg      *float64 // nil until the first review
	RatingCount    int
	BusinessStatus BusinessStatus
	IsActive       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location returns the store coordinates, or nil when either is missing.
func (s *Store) Location() *Point {
	if s.Latitude == nil || s.Longitude == nil {
		return nil
	}

	return &Point{Lat: *s.Latitude, Lng: *s.Longitude}
}

// Validate checks the invariants a persisted store must hold.
func (s *Store) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: store name is required", ErrInvalidArgument)
	}

	loc := s.Location()
	if loc == nil {
		return fmt.Errorf("%w: store coordinates are required", ErrInvalidArgument)
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	if s.KakaoPlaceID != "" && !isDigits(s.KakaoPlaceID) {
		return fmt.Errorf("%w: kakao place id must be numeric", ErrInvalidArgument)
	}
	if s.NaverPlaceID != "" && !isDigits(s.NaverPlaceID) {
		return fmt.Errorf("%w: naver place id must be numeric", ErrInvalidArgument)
	}

	if s.RatingAvg != nil && (*s.RatingAvg < 0 || *s.RatingAvg > 5) {
		return fmt.Errorf("%w: rating average %v out of range [0, 5]", ErrInvalidArgument, *s.RatingAvg)
	}
	if s.RatingCount < 0 {
		return fmt.Errorf("%w: rating count must not be negative", ErrInvalidArgument)
	}

	return nil
}

// Tag is a categorical facet attached to stores.
type Tag struct {
	ID   string
	Name string
	Type string
}

// Category groups stores for browsing. Top-level categories have no parent.
type Category struct {
	ID       string
	Name     string
	ParentID *string
}

// MenuItem is one entry of a store's menu.
type MenuItem struct {
	ID        string
	StoreID   string
	Name      string
	Price     int64
	SortOrder int
	CreatedAt time.Time
}

// Validate checks price and ordering bounds.
func (m *MenuItem) Validate() error {
	if m.Price < 0 {
		return fmt.Errorf("%w: menu price must not be negative", ErrInvalidArgument)
	}
	if m.SortOrder < 1 {
		return fmt.Errorf("%w: menu sort order must be at least 1", ErrInvalidArgument)
	}

	return nil
}

// UserFavorite records that a user favorited a store. At most one exists per
// (user, store) pair.
type UserFavorite struct {
	ID        string
	UserID    string
	StoreID   string
	CreatedAt time.Time
}
