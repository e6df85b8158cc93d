package domain

// Popularity weights. The search SQL binds these same values.
const (
	RatingCountWeight   = 1.0
	FavoriteCountWeight = 2.0
)

// MaxDiscountDigits bounds how long a numeric discount value may be before it
// is treated as non-numeric.
const MaxDiscountDigits = 9

// PopularityScore is the engagement heuristic used by the popularity sort.
func PopularityScore(ratingCount, favoriteCount int64) float64 {
	return float64(ratingCount)*RatingCountWeight + float64(favoriteCount)*FavoriteCountWeight
}

// ParseDiscountPercent parses a plain digit string such as "30". Anything
// else, including signs, decimals, and "30%", is rejected.
func ParseDiscountPercent(v string) (int, bool) {
	if len(v) > MaxDiscountDigits || !isDigits(v) {
		return 0, false
	}

	n := 0
	for i := 0; i < len(v); i++ {
		n = n*10 + int(v[i]-'0')
	}

	return n, true
}
