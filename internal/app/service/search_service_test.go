package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/pkg/clock"
)

type searchFixture struct {
	stores    *fakeStores
	enricher  *fakeEnricher
	snapshots *inlineSnapshots
	cache     *memCache
	clock     *clock.Fixed
	svc       *StoreSearchService
}

func newSearchFixture(opts SearchOptions) *searchFixture {
	f := &searchFixture{
		stores:    &fakeStores{},
		enricher:  &fakeEnricher{data: map[string]*domain.Enrichment{}},
		snapshots: &inlineSnapshots{},
		cache:     newMemCache(),
		clock:     clock.NewFixed(testNow),
	}
	f.svc = NewStoreSearchService(f.stores, f.enricher, f.snapshots, f.cache, f.clock, opts, zap.NewNop())

	return f
}

func twoHits() *domain.StorePage {
	return &domain.StorePage{
		Hits: []domain.StoreHit{
			{ID: "s1", Name: "Store A", DistanceKm: ptr(0.4), RatingAvg: ptr(4.5), RatingCount: 10, BestDiscountPercent: 20},
			{ID: "s2", Name: "Bakery B", RatingCount: 3},
		},
		Total: 7,
	}
}

func TestStoreSearchService_Search(t *testing.T) {
	f := newSearchFixture(SearchOptions{MaxPageSize: 100})
	f.stores.page = twoHits()
	f.enricher.data["s1"] = &domain.Enrichment{
		Tags:      []string{"quiet"},
		MenuNames: []string{"Latte", "Scone", "Bagel", "Mocha"},
		Deals: []domain.EarlybirdDeal{
			{ID: "d1", DiscountType: domain.DiscountTypePercent, DiscountValue: "20", TimeWindow: "06:00-09:00"},
		},
	}

	result, err := f.svc.Search(context.Background(), domain.SearchParams{
		Lat:  ptr(37.55),
		Lng:  ptr(126.92),
		Page: 2,
		Size: 2,
	})
	require.NoError(t, err)

	require.Len(t, f.stores.queries, 1)
	q := f.stores.queries[0]
	assert.Equal(t, 2, q.Offset)
	assert.Equal(t, 2, q.Limit)
	assert.Equal(t, domain.OrderDistance, q.Order[0].Field, "geo requests default to distance order")
	assert.True(t, q.Predicate.Now.Equal(testNow))

	require.Len(t, f.enricher.calls, 1)
	assert.Equal(t, []string{"s1", "s2"}, f.enricher.calls[0].ids)
	assert.False(t, f.enricher.calls[0].opts.WithHours)
	assert.Equal(t, 1, f.snapshots.runs)

	assert.Equal(t, int64(7), result.Total)
	assert.True(t, result.HasNext)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Store A", result.Items[0].Name, "executor order is kept")
	assert.Equal(t, []string{"Latte", "Scone", "Bagel"}, result.Items[0].MenuNames)
	assert.True(t, result.Items[0].Earlybird.HasDeal)
	assert.Equal(t, 20, result.Items[0].Earlybird.BestDiscountPercent)
	assert.Nil(t, result.Items[0].IsOpenNow, "open state is only evaluated for time searches")
	assert.Empty(t, result.Items[1].Tags)
	assert.NotNil(t, result.Items[1].Tags)
}

func TestStoreSearchService_Search_ClampsPageSize(t *testing.T) {
	f := newSearchFixture(SearchOptions{MaxPageSize: 100})

	result, err := f.svc.Search(context.Background(), domain.SearchParams{Size: 500, Page: -3})
	require.NoError(t, err)

	assert.Equal(t, 100, f.stores.queries[0].Limit)
	assert.Equal(t, 0, f.stores.queries[0].Offset)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.Size)
}

func TestStoreSearchService_Search_EmptyPageSkipsEnrichment(t *testing.T) {
	f := newSearchFixture(SearchOptions{})
	f.stores.page = &domain.StorePage{Total: 3}

	result, err := f.svc.Search(context.Background(), domain.SearchParams{Page: 9, Size: 20})
	require.NoError(t, err)

	assert.Empty(t, f.enricher.calls)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(3), result.Total)
	assert.False(t, result.HasNext)
}

func TestStoreSearchService_Search_OpenAtLoadsHours(t *testing.T) {
	f := newSearchFixture(SearchOptions{})
	f.stores.page = &domain.StorePage{Hits: []domain.StoreHit{{ID: "s1", Name: "Overnight"}}, Total: 1}
	f.enricher.data["s1"] = &domain.Enrichment{Hours: []domain.OpenHour{
		{DayOfWeek: time.Friday, Open: 22 * 60, Close: 6 * 60},
	}}

	at := domain.ClockTime(5 * 60)
	day := time.Saturday
	result, err := f.svc.Search(context.Background(), domain.SearchParams{Time: &at, DayOfWeek: &day})
	require.NoError(t, err)

	require.NotNil(t, f.stores.queries[0].Predicate.OpenAt)
	assert.True(t, f.enricher.calls[0].opts.WithHours)
	require.NotNil(t, result.Items[0].IsOpenNow)
	assert.True(t, *result.Items[0].IsOpenNow, "friday night row covers saturday 05:00")
}

func TestStoreSearchService_Search_InvalidCoordinates(t *testing.T) {
	f := newSearchFixture(SearchOptions{})

	_, err := f.svc.Search(context.Background(), domain.SearchParams{Lat: ptr(91.0), Lng: ptr(0.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, f.stores.queries)
}

func TestStoreSearchService_Search_RepositoryError(t *testing.T) {
	f := newSearchFixture(SearchOptions{})
	boom := errors.New("connection reset")
	f.stores.err = boom

	_, err := f.svc.Search(context.Background(), domain.SearchParams{})
	assert.ErrorIs(t, err, boom)
}

func TestStoreSearchService_Search_EnrichmentError(t *testing.T) {
	f := newSearchFixture(SearchOptions{})
	f.stores.page = twoHits()
	boom := errors.New("bad hours row")
	f.enricher.err = boom

	_, err := f.svc.Search(context.Background(), domain.SearchParams{})
	assert.ErrorIs(t, err, boom)
}

func TestStoreSearchService_Search_CachesAnonymousPages(t *testing.T) {
	f := newSearchFixture(SearchOptions{CacheTTL: time.Minute})
	f.stores.page = twoHits()

	params := domain.SearchParams{Keyword: "latte"}

	first, err := f.svc.Search(context.Background(), params)
	require.NoError(t, err)
	second, err := f.svc.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Len(t, f.stores.queries, 1, "second call is served from cache")
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Items[0].Name, second.Items[0].Name)
	assert.Equal(t, 1, f.cache.size())

	t.Run("signed-in users bypass the cache", func(t *testing.T) {
		_, err := f.svc.Search(context.Background(), domain.SearchParams{Keyword: "latte", UserID: "u1"})
		require.NoError(t, err)
		assert.Len(t, f.stores.queries, 2)
		assert.Equal(t, 1, f.cache.size())
	})

	t.Run("cache failures fall through to the database", func(t *testing.T) {
		f.cache.getErr = errors.New("redis down")
		defer func() { f.cache.getErr = nil }()

		_, err := f.svc.Search(context.Background(), params)
		require.NoError(t, err)
		assert.Len(t, f.stores.queries, 3)
	})
}

func TestStoreSearchService_Search_CacheEntriesStayInTheirWindow(t *testing.T) {
	f := newSearchFixture(SearchOptions{CacheTTL: time.Minute})
	f.stores.page = twoHits()
	params := domain.SearchParams{HasDeal: true}

	f.clock.Set(testNow.Add(20 * time.Second))
	_, err := f.svc.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{40 * time.Second}, f.cache.ttlValues(), "entry expires when its window closes")

	f.clock.Set(testNow.Add(50 * time.Second))
	_, err = f.svc.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, f.stores.queries, 1, "same window is served from cache")

	f.clock.Set(testNow.Add(70 * time.Second))
	_, err = f.svc.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, f.stores.queries, 2, "a new window evaluates deals again")
	assert.Equal(t, 2, f.cache.size())
}

func TestStoreSearchService_Search_UnknownSortFallsBack(t *testing.T) {
	f := newSearchFixture(SearchOptions{})

	_, err := f.svc.Search(context.Background(), domain.SearchParams{Sort: "cheapest"})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderName, f.stores.queries[0].Order[0].Field)
}

func TestStoreSearchService_GetStore(t *testing.T) {
	f := newSearchFixture(SearchOptions{})
	f.stores.hits = map[string]*domain.StoreHit{
		"s1": {ID: "s1", Name: "Store A", IsFavorite: true},
	}
	f.enricher.data["s1"] = &domain.Enrichment{Hours: []domain.OpenHour{
		{DayOfWeek: time.Tuesday, Open: 9 * 60, Close: 18 * 60},
	}}

	summary, err := f.svc.GetStore(context.Background(), "s1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "Store A", summary.Name)
	assert.True(t, summary.IsFavorite)
	assert.True(t, f.enricher.calls[0].opts.WithHours)
	require.NotNil(t, summary.IsOpenNow)
	assert.False(t, *summary.IsOpenNow, "07:45 is before opening")
	require.NotNil(t, summary.NextOpenTime)
	assert.Equal(t, 9, summary.NextOpenTime.Hour())

	_, err = f.svc.GetStore(context.Background(), "missing", "")
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}
