package domain

import "time"

// SortKey selects the result ordering.
type SortKey string

const (
	SortDefault    SortKey = ""
	SortDistance   SortKey = "distance"
	SortPopularity SortKey = "popularity"
	SortDiscount   SortKey = "discount"
	SortRating     SortKey = "rating"
	SortRecent     SortKey = "recent"
)

// ParseSortKey maps a request value to a SortKey. Unknown values fall back
// to SortDefault.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortDistance, SortPopularity, SortDiscount, SortRating, SortRecent:
		return k
	default:
		return SortDefault
	}
}

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchParams holds every filter a store search accepts. All fields are
// optional; the zero value searches every active store.
type SearchParams struct {
	// Text
	Keyword string

	// Filters
	CategoryID    string
	TagIDs        []string
	Lat           *float64
	Lng           *float64
	RadiusKm      *float64
	DistanceMaxKm *float64
	Time          *ClockTime
	DayOfWeek     *time.Weekday
	OpenNow       bool
	HasDeal       bool

	Sort SortKey

	// Pagination
	Page int // 1-indexed
	Size int

	// UserID is used only to compute the favorite flag.
	UserID string
}

// Normalize clamps pagination into range. This is bound correction, not
// validation. maxSize <= 0 selects MaxPageSize.
func (p *SearchParams) Normalize(maxSize int) {
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
}

// Offset calculates the database offset for pagination.
func (p *SearchParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit returns the page size (alias for clarity).
func (p *SearchParams) Limit() int {
	return p.Size
}

// RequestsTime reports whether the caller asked for open-at-time filtering.
func (p *SearchParams) RequestsTime() bool {
	return p.OpenNow || p.Time != nil
}

// SearchResult holds one page of store summaries.
type SearchResult struct {
	Items   []StoreSummary
	Page    int
	Size    int
	Total   int64
	HasNext bool
}

// NewSearchResult creates a SearchResult; HasNext is true iff page*size < total.
func NewSearchResult(items []StoreSummary, total int64, params SearchParams) *SearchResult {
	if items == nil {
		items = []StoreSummary{}
	}

	return &SearchResult{
		Items:   items,
		Page:    params.Page,
		Size:    params.Size,
		Total:   total,
		HasNext: int64(params.Page)*int64(params.Size) < total,
	}
}
