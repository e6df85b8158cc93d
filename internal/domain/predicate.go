package domain

import (
	"math"
	"strings"
	"time"
)

// Condition is one independently testable filter of a search. The set of
// implementations is closed; storage adapters switch on the concrete type.
type Condition interface {
	isCondition()
}

// KeywordCondition matches Keyword as a case-insensitive substring of the
// store name, its AI recommendation, or any of its menu item names.
type KeywordCondition struct {
	Keyword string
}

// CategoryCondition matches stores in exactly one category, compared
// case-insensitively.
type CategoryCondition struct {
	CategoryID string
}

// TagCondition matches stores carrying at least one of TagIDs.
type TagCondition struct {
	TagIDs []string
}

// GeoCondition requires stored coordinates and, when MaxKm is set, a
// distance from Origin no greater than MaxKm.
type GeoCondition struct {
	Origin Point
	MaxKm  *float64
}

// OpenAtCondition requires the store schedule to cover Day at Time.
type OpenAtCondition struct {
	Day  time.Weekday
	Time ClockTime
}

// Instant resolves the condition to a concrete time in now's location: the
// first date on or after now's date that falls on Day, at Time.
func (c OpenAtCondition) Instant(now time.Time) time.Time {
	ahead := (int(c.Day) - int(now.Weekday()) + 7) % 7
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return midnight.AddDate(0, 0, ahead).Add(time.Duration(c.Time) * time.Minute)
}

// DealCondition requires at least one deal that is currently valid at At.
type DealCondition struct {
	At time.Time
}

func (KeywordCondition) isCondition()  {}
func (CategoryCondition) isCondition() {}
func (TagCondition) isCondition()      {}
func (GeoCondition) isCondition()      {}
func (OpenAtCondition) isCondition()   {}
func (DealCondition) isCondition()     {}

// Predicate is the conjunction of its Conditions.
type Predicate struct {
	Conditions []Condition

	// Origin is set when the request carries coordinates; the executor
	// projects distance from it.
	Origin *Point

	// OpenAt is the resolved open-at instant, nil when time was not requested.
	OpenAt *OpenAtCondition

	// Now is the instant used for deal validity.
	Now time.Time
}

// BuildPredicate assembles the active filters of params. now supplies the
// default day and time of day, in now's location, when the request omits them.
func BuildPredicate(params SearchParams, now time.Time) (Predicate, error) {
	pred := Predicate{Now: now}

	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		pred.Conditions = append(pred.Conditions, KeywordCondition{Keyword: kw})
	}

	if cat := strings.TrimSpace(params.CategoryID); cat != "" {
		pred.Conditions = append(pred.Conditions, CategoryCondition{CategoryID: cat})
	}

	if ids := NormalizeTagIDs(params.TagIDs); len(ids) > 0 {
		pred.Conditions = append(pred.Conditions, TagCondition{TagIDs: ids})
	}

	if params.Lat != nil && params.Lng != nil {
		origin := Point{Lat: *params.Lat, Lng: *params.Lng}
		if err := origin.Validate(); err != nil {
			return Predicate{}, err
		}
		pred.Origin = &origin
		pred.Conditions = append(pred.Conditions, GeoCondition{
			Origin: origin,
			MaxKm:  minBound(params.RadiusKm, params.DistanceMaxKm),
		})
	}

	if params.RequestsTime() {
		at := OpenAtCondition{Day: now.Weekday(), Time: ClockTimeOf(now)}
		if params.DayOfWeek != nil {
			at.Day = *params.DayOfWeek
		}
		if params.Time != nil {
			at.Time = *params.Time
		}
		pred.OpenAt = &at
		pred.Conditions = append(pred.Conditions, at)
	}

	if params.HasDeal {
		pred.Conditions = append(pred.Conditions, DealCondition{At: now})
	}

	return pred, nil
}

// NormalizeTagIDs trims ids, drops empties, and removes duplicates while
// keeping first-seen order.
func NormalizeTagIDs(ids []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// minBound returns the smaller of two optional inclusive bounds.
func minBound(a, b *float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	default:
		v := math.Min(*a, *b)
		return &v
	}
}
