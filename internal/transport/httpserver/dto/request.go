// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"
	"time"

	"store-search-service/internal/domain"
)

// UserIDHeader carries the caller identity. It is used for favorite flags
// and favorite writes only, never for authorization.
const UserIDHeader = "X-User-Id"

// SearchRequest represents the query parameters of a store search.
// Pagination values out of range are clamped by the service, not rejected.
type SearchRequest struct {
	Query         string   `query:"q" validate:"max=100"`
	CategoryID    string   `query:"category_id" validate:"max=50"`
	TagIDs        string   `query:"tag_ids" validate:"max=1000"`
	Lat           *float64 `query:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng           *float64 `query:"lng" validate:"omitempty,gte=-180,lte=180"`
	RadiusKm      *float64 `query:"radius_km" validate:"omitempty,gt=0"`
	DistanceMaxKm *float64 `query:"distance_max_km" validate:"omitempty,gt=0"`
	Time          string   `query:"time" validate:"omitempty,clock"`
	DayOfWeek     *int     `query:"day_of_week" validate:"omitempty,min=0,max=6"`
	OpenNow       bool     `query:"open_now"`
	HasDeal       bool     `query:"has_deal"`
	Sort          string   `query:"sort" validate:"max=20"`
	Page          int      `query:"page"`
	Size          int      `query:"size"`
}

// ToSearchParams converts SearchRequest to domain.SearchParams. The request
// must have passed validation.
func (r *SearchRequest) ToSearchParams(userID string) (domain.SearchParams, error) {
	params := domain.SearchParams{
		Keyword:       r.Query,
		CategoryID:    r.CategoryID,
		TagIDs:        splitCSV(r.TagIDs),
		Lat:           r.Lat,
		Lng:           r.Lng,
		RadiusKm:      r.RadiusKm,
		DistanceMaxKm: r.DistanceMaxKm,
		OpenNow:       r.OpenNow,
		HasDeal:       r.HasDeal,
		Sort:          domain.ParseSortKey(strings.ToLower(strings.TrimSpace(r.Sort))),
		Page:          r.Page,
		Size:          r.Size,
		UserID:        userID,
	}

	if r.Time != "" {
		t, err := domain.ParseClockTime(r.Time)
		if err != nil {
			return domain.SearchParams{}, err
		}
		params.Time = &t
	}
	if r.DayOfWeek != nil {
		day := time.Weekday(*r.DayOfWeek)
		params.DayOfWeek = &day
	}

	return params, nil
}

// FilterRequest represents the query parameters of the filter metadata
// endpoint.
type FilterRequest struct {
	Lat      *float64 `query:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng      *float64 `query:"lng" validate:"omitempty,gte=-180,lte=180"`
	RadiusKm *float64 `query:"radius_km" validate:"omitempty,gt=0"`
	Type     string   `query:"type" validate:"max=30"`
}

// ToFilterMetaParams converts FilterRequest to domain.FilterMetaParams.
func (r *FilterRequest) ToFilterMetaParams() domain.FilterMetaParams {
	return domain.FilterMetaParams{
		Lat:      r.Lat,
		Lng:      r.Lng,
		RadiusKm: r.RadiusKm,
		TagType:  r.Type,
	}
}

// UserRequest validates the caller identity header.
type UserRequest struct {
	UserID string `json:"userId" validate:"max=64"`
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	return strings.Split(s, ",")
}
