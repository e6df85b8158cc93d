package domain

// OrderField names a sortable column of the search projection.
type OrderField string

const (
	OrderDistance     OrderField = "distance_km"
	OrderRatingAvg    OrderField = "rating_avg"
	OrderRatingCount  OrderField = "rating_count"
	OrderBestDiscount OrderField = "best_discount_pct"
	OrderPopularity   OrderField = "popularity_score"
	OrderName         OrderField = "name" // compared case-insensitively
	OrderID           OrderField = "id"
)

// OrderTerm is one key of an ORDER BY list.
type OrderTerm struct {
	Field     OrderField
	Desc      bool
	NullsLast bool
}

// OrderFor maps a sort key to a total ordering. Every ordering ends with the
// store id so that pagination is stable across repeated calls. Distance
// ordering requires an origin; without one it falls back to name.
func OrderFor(sort SortKey, hasOrigin bool) []OrderTerm {
	tieBreak := OrderTerm{Field: OrderID}

	switch sort {
	case SortDistance:
		if hasOrigin {
			return distanceOrder(tieBreak)
		}
	case SortRating:
		return []OrderTerm{
			{Field: OrderRatingAvg, Desc: true, NullsLast: true},
			{Field: OrderRatingCount, Desc: true, NullsLast: true},
			tieBreak,
		}
	case SortDiscount:
		return []OrderTerm{{Field: OrderBestDiscount, Desc: true, NullsLast: true}, tieBreak}
	case SortPopularity:
		return []OrderTerm{{Field: OrderPopularity, Desc: true, NullsLast: true}, tieBreak}
	case SortRecent:
		return nameOrder(tieBreak)
	default:
		if hasOrigin {
			return distanceOrder(tieBreak)
		}
	}

	return nameOrder(tieBreak)
}

func distanceOrder(tieBreak OrderTerm) []OrderTerm {
	return []OrderTerm{{Field: OrderDistance, NullsLast: true}, tieBreak}
}

func nameOrder(tieBreak OrderTerm) []OrderTerm {
	return []OrderTerm{{Field: OrderName}, tieBreak}
}
