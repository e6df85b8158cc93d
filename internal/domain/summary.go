package domain

import "time"

// MaxMenuExcerpt is the number of menu names shown per store.
const MaxMenuExcerpt = 3

// StoreHit is one row produced by the search executor, before enrichment.
type StoreHit struct {
	ID                  string
	Name                string
	Address             string
	ImageURL            string
	DistanceKm          *float64 // nil when the request had no origin
	RatingAvg           *float64
	RatingCount         int
	BestDiscountPercent int
	PopularityScore     float64
	IsFavorite          bool
}

// StorePage is the executor output: one ordered page and the full match count.
type StorePage struct {
	Hits  []StoreHit
	Total int64
}

// IDs returns the hit ids in page order.
func (p *StorePage) IDs() []string {
	ids := make([]string, len(p.Hits))
	for i, h := range p.Hits {
		ids[i] = h.ID
	}

	return ids
}

// Enrichment holds the per-store collections loaded in batch for a page.
type Enrichment struct {
	Categories []string
	Tags       []string
	MenuNames  []string
	Hours      []OpenHour
	Deals      []EarlybirdDeal // currently valid deals only
}

// Rating is the denormalized review aggregate.
type Rating struct {
	Avg   *float64
	Count int
}

// EarlybirdSummary describes the best currently valid deal of a store.
type EarlybirdSummary struct {
	HasDeal             bool
	BestDiscountPercent int
	DealID              *string
	TimeWindow          *string
}

// StoreSummary is the enriched search result for one store.
type StoreSummary struct {
	ID           string
	Name         string
	Address      string
	ImageURL     string
	DistanceKm   *float64
	Rating       Rating
	IsOpenNow    *bool
	NextOpenTime *time.Time
	IsFavorite   bool
	Categories   []string
	Tags         []string
	MenuNames    []string
	Earlybird    EarlybirdSummary
}

// Summarize joins a hit with its enrichment. When openAt is non-nil the
// schedule is evaluated at that instant to fill IsOpenNow and, for a closed
// store, NextOpenTime.
func Summarize(hit StoreHit, e *Enrichment, openAt *time.Time) StoreSummary {
	if e == nil {
		e = &Enrichment{}
	}

	s := StoreSummary{
		ID:         hit.ID,
		Name:       hit.Name,
		Address:    hit.Address,
		ImageURL:   hit.ImageURL,
		DistanceKm: hit.DistanceKm,
		Rating:     Rating{Avg: hit.RatingAvg, Count: hit.RatingCount},
		IsFavorite: hit.IsFavorite,
		Categories: nonNil(e.Categories),
		Tags:       nonNil(e.Tags),
		MenuNames:  nonNil(e.MenuNames),
		Earlybird:  EarlybirdSummary{BestDiscountPercent: hit.BestDiscountPercent},
	}
	if len(s.MenuNames) > MaxMenuExcerpt {
		s.MenuNames = s.MenuNames[:MaxMenuExcerpt]
	}

	if best := BestDeal(e.Deals); best != nil {
		s.Earlybird.HasDeal = true
		id := best.ID
		s.Earlybird.DealID = &id
		if best.TimeWindow != "" {
			tw := best.TimeWindow
			s.Earlybird.TimeWindow = &tw
		}
	}

	if openAt != nil {
		open := IsOpenAt(e.Hours, openAt.Weekday(), ClockTimeOf(*openAt))
		s.IsOpenNow = &open
		if !open {
			if next, ok := NextOpening(e.Hours, *openAt); ok {
				s.NextOpenTime = &next
			}
		}
	}

	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
