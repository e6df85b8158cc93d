package dto

import (
	"time"

	"store-search-service/internal/domain"
)

// APIResponse is the envelope of every API response. Result is omitted on
// failure.
type APIResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	Result    any    `json:"result,omitempty"`
}

// OK wraps result in a successful envelope.
func OK(result any) APIResponse {
	return APIResponse{IsSuccess: true, Message: "OK", Code: 200, Result: result}
}

// Fail builds a failure envelope.
func Fail(code int, message string) APIResponse {
	return APIResponse{IsSuccess: false, Message: message, Code: code}
}

// RatingResponse is the review aggregate of a store.
type RatingResponse struct {
	Avg   *float64 `json:"avg"`
	Count int      `json:"count"`
}

// EarlybirdResponse describes the best current deal of a store.
type EarlybirdResponse struct {
	HasDeal         bool    `json:"hasDeal"`
	BestDiscountPct int     `json:"bestDiscountPct"`
	DealID          *string `json:"dealId"`
	TimeWindow      *string `json:"timeWindow"`
}

// StoreSummaryResponse represents a single store in search results.
type StoreSummaryResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Address      string            `json:"address"`
	RepImageURL  string            `json:"repImageUrl"`
	DistanceKm   *float64          `json:"distanceKm"`
	Rating       RatingResponse    `json:"rating"`
	IsOpenNow    *bool             `json:"isOpenNow"`
	NextOpenTime *string           `json:"nextOpenTime"` // RFC 3339
	IsFavorite   bool              `json:"isFavorite"`
	Categories   []string          `json:"categories"`
	Tags         []string          `json:"tags"`
	Menus        []string          `json:"menus"`
	Earlybird    EarlybirdResponse `json:"earlybird"`
}

// FromStoreSummary converts domain.StoreSummary to StoreSummaryResponse.
func FromStoreSummary(s *domain.StoreSummary) StoreSummaryResponse {
	resp := StoreSummaryResponse{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		RepImageURL: s.ImageURL,
		DistanceKm:  s.DistanceKm,
		Rating:      RatingResponse{Avg: s.Rating.Avg, Count: s.Rating.Count},
		IsOpenNow:   s.IsOpenNow,
		IsFavorite:  s.IsFavorite,
		Categories:  orEmpty(s.Categories),
		Tags:        orEmpty(s.Tags),
		Menus:       orEmpty(s.MenuNames),
		Earlybird: EarlybirdResponse{
			HasDeal:         s.Earlybird.HasDeal,
			BestDiscountPct: s.Earlybird.BestDiscountPercent,
			DealID:          s.Earlybird.DealID,
			TimeWindow:      s.Earlybird.TimeWindow,
		},
	}
	if s.NextOpenTime != nil {
		next := s.NextOpenTime.Format(time.RFC3339)
		resp.NextOpenTime = &next
	}

	return resp
}

// SearchResponse represents one page of search results.
type SearchResponse struct {
	Items   []StoreSummaryResponse `json:"items"`
	Page    int                    `json:"page"`
	Size    int                    `json:"size"`
	Total   int64                  `json:"total"`
	HasNext bool                   `json:"hasNext"`
}

// FromSearchResult converts domain.SearchResult to SearchResponse.
func FromSearchResult(r *domain.SearchResult) SearchResponse {
	items := make([]StoreSummaryResponse, len(r.Items))
	for i := range r.Items {
		items[i] = FromStoreSummary(&r.Items[i])
	}

	return SearchResponse{
		Items:   items,
		Page:    r.Page,
		Size:    r.Size,
		Total:   r.Total,
		HasNext: r.HasNext,
	}
}

// CategoryResponse is a browsable category.
type CategoryResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

// TagResponse is one tag histogram bucket.
type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// FilterMetaResponse lists the options of the search filter UI.
type FilterMetaResponse struct {
	Categories  []CategoryResponse `json:"categories"`
	Tags        []TagResponse      `json:"tags"`
	SortOptions []string           `json:"sortOptions"`
	TimeSlots   []string           `json:"timeSlots"`
}

// FromFilterMeta converts domain.FilterMeta to FilterMetaResponse.
func FromFilterMeta(m *domain.FilterMeta) FilterMetaResponse {
	resp := FilterMetaResponse{
		Categories:  make([]CategoryResponse, len(m.Categories)),
		Tags:        make([]TagResponse, len(m.Tags)),
		SortOptions: make([]string, len(m.SortOptions)),
		TimeSlots:   orEmpty(m.TimeSlots),
	}
	for i, c := range m.Categories {
		resp.Categories[i] = CategoryResponse{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
	}
	for i, t := range m.Tags {
		resp.Tags[i] = TagResponse{ID: t.ID, Name: t.Name, Type: t.Type, Count: t.Count}
	}
	for i, s := range m.SortOptions {
		resp.SortOptions[i] = string(s)
	}

	return resp
}

// MorningSaleStoreResponse is one store of the morning sale listing.
type MorningSaleStoreResponse struct {
	StoreID     string `json:"storeId"`
	StoreName   string `json:"storeName"`
	RepImageURL string `json:"repImageUrl"`
	DealID      string `json:"dealId"`
	DisplayText string `json:"displayText"`
}

// MorningSaleResponse lists the stores running a deal right now.
type MorningSaleResponse struct {
	Stores     []MorningSaleStoreResponse `json:"stores"`
	TotalCount int                        `json:"totalCount"`
}

// FromMorningSales converts domain.MorningSale rows to MorningSaleResponse.
func FromMorningSales(sales []domain.MorningSale) MorningSaleResponse {
	stores := make([]MorningSaleStoreResponse, len(sales))
	for i, s := range sales {
		stores[i] = MorningSaleStoreResponse{
			StoreID:     s.StoreID,
			StoreName:   s.StoreName,
			RepImageURL: s.RepImageURL,
			DealID:      s.DealID,
			DisplayText: s.DisplayText,
		}
	}

	return MorningSaleResponse{Stores: stores, TotalCount: len(stores)}
}

// FavoriteResponse reports the favorite state after a write.
type FavoriteResponse struct {
	StoreID    string `json:"storeId"`
	IsFavorite bool   `json:"isFavorite"`
	Changed    bool   `json:"changed"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
