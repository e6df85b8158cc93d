package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-search-service/internal/domain"
)

// Every fragment below is written against the stores table aliased as s.

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes v match literally inside a LIKE pattern.
func escapeLike(v string) string {
	return likeEscaper.Replace(v)
}

// distanceExpr is the great-circle distance in km from origin to the store
// coordinates, using the same haversine form as domain.HaversineKm.
func distanceExpr(origin domain.Point) clause.Expr {
	radius := strconv.FormatFloat(domain.EarthRadiusKm, 'f', -1, 64)

	return gorm.Expr(
		"(2 * "+radius+" * ASIN(LEAST(1, SQRT("+
			"POWER(SIN(RADIANS(s.latitude - ?) / 2), 2) + "+
			"COS(RADIANS(?)) * COS(RADIANS(s.latitude)) * POWER(SIN(RADIANS(s.longitude - ?) / 2), 2)))))",
		origin.Lat, origin.Lat, origin.Lng,
	)
}

// validDealSQL matches deals that are currently valid at the bound instant.
// Bind it with validDealVars.
func validDealSQL(alias string) string {
	return fmt.Sprintf(
		"%[1]s.status = ? AND %[1]s.is_active AND (%[1]s.valid_from IS NULL OR %[1]s.valid_from <= ?) AND (%[1]s.valid_until IS NULL OR %[1]s.valid_until >= ?)",
		alias,
	)
}

func validDealVars(now time.Time) []interface{} {
	return []interface{}{string(domain.DealStatusActive), now, now}
}

// conditionExpr renders one search condition as a parenthesized boolean
// expression with bound parameters.
func conditionExpr(c domain.Condition) (clause.Expr, error) {
	switch c := c.(type) {
	case domain.KeywordCondition:
		pattern := "%" + escapeLike(c.Keyword) + "%"
		return gorm.Expr(
			`(LOWER(s.name) LIKE LOWER(?) ESCAPE '\'`+
				` OR LOWER(COALESCE(s.ai_recommendation, '')) LIKE LOWER(?) ESCAPE '\'`+
				` OR EXISTS (SELECT 1 FROM menu_items mi WHERE mi.store_id = s.id AND LOWER(mi.name) LIKE LOWER(?) ESCAPE '\'))`,
			pattern, pattern, pattern,
		), nil

	case domain.CategoryCondition:
		return gorm.Expr("(LOWER(s.category_id) = LOWER(?))", c.CategoryID), nil

	case domain.TagCondition:
		return gorm.Expr(
			"(EXISTS (SELECT 1 FROM store_tags st WHERE st.store_id = s.id AND st.tag_id IN ?))",
			c.TagIDs,
		), nil

	case domain.GeoCondition:
		if c.MaxKm == nil {
			return gorm.Expr("(s.latitude IS NOT NULL AND s.longitude IS NOT NULL)"), nil
		}
		return gorm.Expr(
			"(s.latitude IS NOT NULL AND s.longitude IS NOT NULL AND ? <= ?)",
			distanceExpr(c.Origin), *c.MaxKm,
		), nil

	case domain.OpenAtCondition:
		return openAtExpr(c), nil

	case domain.DealCondition:
		return gorm.Expr(
			"(EXISTS (SELECT 1 FROM earlybird_deals d WHERE d.store_id = s.id AND "+validDealSQL("d")+"))",
			validDealVars(c.At)...,
		), nil

	default:
		return clause.Expr{}, fmt.Errorf("unsupported search condition %T", c)
	}
}

// openAtExpr matches stores whose same-day row covers the time, or whose
// previous-day overnight row spills past midnight over it. A break window
// excludes the time in either case.
func openAtExpr(c domain.OpenAtCondition) clause.Expr {
	t := c.Time.String()
	day := int(c.Day)
	prev := int(domain.PreviousDay(c.Day))

	return gorm.Expr(
		"(EXISTS (SELECT 1 FROM store_open_hours oh WHERE oh.store_id = s.id AND oh.day_of_week = ?"+
			" AND (oh.is_24h"+
			" OR (oh.open_time <= oh.close_time AND ? >= oh.open_time AND ? < oh.close_time)"+
			" OR (oh.open_time > oh.close_time AND (? >= oh.open_time OR ? < oh.close_time)))"+
			" AND NOT (oh.break_start IS NOT NULL AND oh.break_end IS NOT NULL AND ? >= oh.break_start AND ? < oh.break_end))"+
			" OR EXISTS (SELECT 1 FROM store_open_hours ph WHERE ph.store_id = s.id AND ph.day_of_week = ?"+
			" AND ph.open_time > ph.close_time AND ? < ph.close_time"+
			" AND NOT (ph.break_start IS NOT NULL AND ph.break_end IS NOT NULL AND ? >= ph.break_start AND ? < ph.break_end)))",
		day, t, t, t, t, t, t,
		prev, t, t, t,
	)
}

// hitColumns is the projection scanned into storeHitRow.
func hitColumns(origin *domain.Point, now time.Time, userID string) clause.Expr {
	var (
		sql  strings.Builder
		vars []interface{}
	)

	sql.WriteString("s.id, s.name, COALESCE(s.address, '') AS address, COALESCE(s.rep_image_url, '') AS rep_image_url, ")
	sql.WriteString("s.rating_avg, COALESCE(s.rating_count, 0) AS rating_count, ")

	if origin != nil {
		sql.WriteString("? AS distance_km, ")
		vars = append(vars, distanceExpr(*origin))
	} else {
		sql.WriteString("CAST(NULL AS DOUBLE PRECISION) AS distance_km, ")
	}

	sql.WriteString("COALESCE((SELECT MAX(CAST(d.discount_value AS INTEGER)) FROM earlybird_deals d WHERE d.store_id = s.id AND ")
	sql.WriteString(validDealSQL("d"))
	sql.WriteString(" AND d.discount_type = ? AND d.discount_value ~ '^[0-9]{1," + strconv.Itoa(domain.MaxDiscountDigits) + "}$'), 0) AS best_discount_pct, ")
	vars = append(vars, validDealVars(now)...)
	vars = append(vars, string(domain.DiscountTypePercent))

	sql.WriteString("CAST(COALESCE(s.rating_count, 0) * CAST(? AS DOUBLE PRECISION)" +
		" + (SELECT COUNT(*) FROM user_favorites fc WHERE fc.store_id = s.id) * CAST(? AS DOUBLE PRECISION)" +
		" AS DOUBLE PRECISION) AS popularity_score, ")
	vars = append(vars, domain.RatingCountWeight, domain.FavoriteCountWeight)

	if userID == "" {
		sql.WriteString("FALSE AS is_favorite")
	} else {
		sql.WriteString("EXISTS (SELECT 1 FROM user_favorites uf WHERE uf.store_id = s.id AND uf.user_id = ?) AS is_favorite")
		vars = append(vars, userID)
	}

	return clause.Expr{SQL: sql.String(), Vars: vars}
}

var orderColumns = map[domain.OrderField]string{
	domain.OrderDistance:     "distance_km",
	domain.OrderRatingAvg:    "s.rating_avg",
	domain.OrderRatingCount:  "s.rating_count",
	domain.OrderBestDiscount: "best_discount_pct",
	domain.OrderPopularity:   "popularity_score",
	domain.OrderName:         "LOWER(s.name)",
	domain.OrderID:           "s.id",
}

// orderSQL renders an ORDER BY list over the hitColumns projection.
func orderSQL(terms []domain.OrderTerm) (string, error) {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		col, ok := orderColumns[term.Field]
		if !ok {
			return "", fmt.Errorf("unsupported order field %q", term.Field)
		}
		dir := " ASC"
		if term.Desc {
			dir = " DESC"
		}
		if term.NullsLast {
			dir += " NULLS LAST"
		}
		parts = append(parts, col+dir)
	}

	return strings.Join(parts, ", "), nil
}
