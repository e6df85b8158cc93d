package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"store-search-service/internal/domain"
)

// dryRunDB returns a GORM handle that renders statements without connecting.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgresDriver.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	require.NoError(t, err)

	return db
}

// render builds a SELECT through fn and returns its SQL and bound vars.
func render(t *testing.T, fn func(tx *gorm.DB) *gorm.DB) (string, []interface{}) {
	t.Helper()

	var rows []storeHitRow
	stmt := fn(dryRunDB(t)).Find(&rows).Statement

	return stmt.SQL.String(), stmt.Vars
}

func renderPredicate(t *testing.T, pred domain.Predicate) (string, []interface{}) {
	t.Helper()

	repo := &SearchRepository{}
	return render(t, func(tx *gorm.DB) *gorm.DB {
		q, err := repo.buildSearchQuery(tx, pred)
		require.NoError(t, err)
		return q
	})
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"latte", "latte"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\path`, `c:\\path`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in))
	}
}

func TestBuildSearchQuery_EmptyPredicateFiltersActiveOnly(t *testing.T) {
	sql, vars := renderPredicate(t, domain.Predicate{})

	assert.Contains(t, sql, "FROM stores AS s")
	assert.Contains(t, sql, "s.is_active = $1")
	assert.Equal(t, []interface{}{true}, vars)
}

func TestBuildSearchQuery_KeywordIsBoundAndEscaped(t *testing.T) {
	sql, vars := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.KeywordCondition{Keyword: "50%'; DROP TABLE stores;--"}},
	})

	assert.NotContains(t, sql, "DROP TABLE")
	assert.Contains(t, sql, "LOWER(s.name) LIKE LOWER($2)")
	assert.Contains(t, sql, "LOWER(COALESCE(s.ai_recommendation, '')) LIKE LOWER($3)")
	assert.Contains(t, sql, "LOWER(mi.name) LIKE LOWER($4)")

	require.Len(t, vars, 4)
	for _, v := range vars[1:] {
		assert.Equal(t, `%50\%'; DROP TABLE stores;--%`, v)
	}
}

func TestBuildSearchQuery_CategoryIsCaseInsensitive(t *testing.T) {
	sql, vars := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.CategoryCondition{CategoryID: "Cafe"}},
	})

	assert.Contains(t, sql, "LOWER(s.category_id) = LOWER($2)")
	assert.Equal(t, "Cafe", vars[1])
}

func TestBuildSearchQuery_TagsExpandIntoInList(t *testing.T) {
	sql, vars := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.TagCondition{TagIDs: []string{"wifi", "quiet"}}},
	})

	assert.Contains(t, sql, "st.tag_id IN ($2,$3)")
	assert.Equal(t, []interface{}{true, "wifi", "quiet"}, vars)
}

func TestBuildSearchQuery_GeoWithoutBoundOnlyRequiresCoordinates(t *testing.T) {
	sql, _ := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.GeoCondition{Origin: domain.Point{Lat: 37.5, Lng: 127}}},
	})

	assert.Contains(t, sql, "s.latitude IS NOT NULL AND s.longitude IS NOT NULL")
	assert.NotContains(t, sql, "ASIN")
}

func TestBuildSearchQuery_GeoBoundUsesHaversine(t *testing.T) {
	maxKm := 1.5
	sql, vars := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.GeoCondition{Origin: domain.Point{Lat: 37.5, Lng: 127.01}, MaxKm: &maxKm}},
	})

	assert.Contains(t, sql, "2 * 6371 * ASIN(LEAST(1, SQRT(")
	assert.Contains(t, sql, ")) <= $5")
	assert.Equal(t, []interface{}{true, 37.5, 37.5, 127.01, 1.5}, vars)
}

func TestBuildSearchQuery_OpenAtChecksSameAndPreviousDay(t *testing.T) {
	sql, vars := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.OpenAtCondition{Day: time.Monday, Time: domain.ClockTime(1*60 + 30)}},
	})

	assert.Contains(t, sql, "oh.day_of_week = $2")
	assert.Contains(t, sql, "ph.day_of_week = $9")
	assert.Equal(t, 2, strings.Count(sql, "break_start IS NOT NULL"))

	require.Len(t, vars, 12)
	assert.Equal(t, int(time.Monday), vars[1])
	assert.Equal(t, int(time.Sunday), vars[8])
	for _, i := range []int{2, 3, 4, 5, 6, 7, 9, 10, 11} {
		assert.Equal(t, "01:30", vars[i], "var %d", i)
	}
}

func TestBuildSearchQuery_DealChecksValidityWindow(t *testing.T) {
	now := time.Date(2025, 3, 4, 7, 45, 0, 0, time.UTC)
	sql, vars := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{domain.DealCondition{At: now}},
	})

	assert.Contains(t, sql, "d.status = $2 AND d.is_active")
	assert.Contains(t, sql, "d.valid_from <= $3")
	assert.Contains(t, sql, "d.valid_until >= $4")
	assert.Equal(t, []interface{}{true, "ACTIVE", now, now}, vars)
}

func TestBuildSearchQuery_ConditionsAreConjoined(t *testing.T) {
	sql, _ := renderPredicate(t, domain.Predicate{
		Conditions: []domain.Condition{
			domain.KeywordCondition{Keyword: "latte"},
			domain.CategoryCondition{CategoryID: "cafe"},
		},
	})

	assert.Regexp(t, `s\.is_active = \$1 AND \(+LOWER\(s\.name\).*\) AND \(+LOWER\(s\.category_id\)`, sql)
}

func TestHitColumns_AnonymousWithoutOrigin(t *testing.T) {
	now := time.Date(2025, 3, 4, 7, 45, 0, 0, time.UTC)
	cols := hitColumns(nil, now, "")

	assert.Contains(t, cols.SQL, "CAST(NULL AS DOUBLE PRECISION) AS distance_km")
	assert.Contains(t, cols.SQL, "FALSE AS is_favorite")
	assert.Contains(t, cols.SQL, "d.discount_value ~ '^[0-9]{1,9}$'")
	assert.Equal(t, []interface{}{"ACTIVE", now, now, "PERCENT", 1.0, 2.0}, cols.Vars)
}

func TestHitColumns_WithOriginAndUser(t *testing.T) {
	now := time.Date(2025, 3, 4, 7, 45, 0, 0, time.UTC)
	sql, vars := render(t, func(tx *gorm.DB) *gorm.DB {
		cols := hitColumns(&domain.Point{Lat: 37.5, Lng: 127}, now, "user-1")
		return tx.Table("stores AS s").Select(cols.SQL, cols.Vars...)
	})

	assert.Contains(t, sql, "ASIN(LEAST(1, SQRT(")
	assert.Contains(t, sql, "AS distance_km")
	assert.Contains(t, sql, "uf.user_id = $10) AS is_favorite")
	assert.Equal(t, []interface{}{37.5, 37.5, 127.0, "ACTIVE", now, now, "PERCENT", 1.0, 2.0, "user-1"}, vars)
}

func TestOrderSQL(t *testing.T) {
	tests := []struct {
		name string
		sort domain.SortKey
		geo  bool
		want string
	}{
		{"default with origin", domain.SortDefault, true, "distance_km ASC NULLS LAST, s.id ASC"},
		{"default without origin", domain.SortDefault, false, "LOWER(s.name) ASC, s.id ASC"},
		{"rating", domain.SortRating, false, "s.rating_avg DESC NULLS LAST, s.rating_count DESC NULLS LAST, s.id ASC"},
		{"discount", domain.SortDiscount, true, "best_discount_pct DESC NULLS LAST, s.id ASC"},
		{"popularity", domain.SortPopularity, false, "popularity_score DESC NULLS LAST, s.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderSQL(domain.OrderFor(tt.sort, tt.geo))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderSQL_RejectsUnknownField(t *testing.T) {
	_, err := orderSQL([]domain.OrderTerm{{Field: "owner_id"}})
	assert.Error(t, err)
}

func TestTagCountQuery_GlobalListsEveryTag(t *testing.T) {
	repo := &FilterMetaRepository{}
	sql, vars := render(t, func(tx *gorm.DB) *gorm.DB {
		return repo.buildTagCountQuery(tx, domain.FilterMetaParams{TagType: "Mood"}, 0)
	})

	assert.Contains(t, sql, "LEFT JOIN store_tags st")
	assert.Contains(t, sql, "LEFT JOIN stores s ON s.id = st.store_id AND s.is_active")
	assert.Contains(t, sql, "LOWER(t.type) = LOWER($1)")
	assert.Contains(t, sql, "ORDER BY store_count DESC, t.name ASC, t.id ASC")
	assert.Contains(t, sql, "LIMIT $2")
	assert.Equal(t, []interface{}{"Mood", domain.DefaultTagFacetLimit}, vars)
}

func TestTagCountQuery_GeoScoped(t *testing.T) {
	lat, lng, radius := 37.5, 127.0, 2.0
	repo := &FilterMetaRepository{}
	sql, _ := render(t, func(tx *gorm.DB) *gorm.DB {
		return repo.buildTagCountQuery(tx, domain.FilterMetaParams{Lat: &lat, Lng: &lng, RadiusKm: &radius}, 10)
	})

	assert.NotContains(t, sql, "LEFT JOIN")
	assert.Contains(t, sql, "JOIN stores s ON s.id = st.store_id AND s.is_active")
	assert.Contains(t, sql, "ASIN(LEAST(1, SQRT(")
}
