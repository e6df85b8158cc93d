package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"store-search-service/internal/domain"
)

// 2025-03-04 07:45 KST, a Tuesday.
var testNow = time.Date(2025, 3, 4, 7, 45, 0, 0, time.FixedZone("KST", 9*3600))

func ptr[T any](v T) *T { return &v }

type fakeStores struct {
	page    *domain.StorePage
	err     error
	queries []domain.SearchQuery

	hits   map[string]*domain.StoreHit
	exists map[string]bool
}

func (f *fakeStores) Search(_ context.Context, q domain.SearchQuery) (*domain.StorePage, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if f.page == nil {
		return &domain.StorePage{}, nil
	}

	return f.page, nil
}

func (f *fakeStores) FindHit(_ context.Context, storeID, userID string, _ time.Time) (*domain.StoreHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	hit, ok := f.hits[storeID]
	if !ok {
		return nil, nil
	}
	h := *hit
	h.IsFavorite = userID != "" && h.IsFavorite

	return &h, nil
}

func (f *fakeStores) Exists(_ context.Context, storeID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}

	return f.exists[storeID], nil
}

type fakeEnricher struct {
	data  map[string]*domain.Enrichment
	err   error
	calls []enrichCall
}

type enrichCall struct {
	ids  []string
	opts domain.EnrichOptions
}

func (f *fakeEnricher) Load(_ context.Context, ids []string, opts domain.EnrichOptions) (map[string]*domain.Enrichment, error) {
	f.calls = append(f.calls, enrichCall{ids: ids, opts: opts})
	if f.err != nil {
		return nil, f.err
	}

	out := make(map[string]*domain.Enrichment, len(ids))
	for _, id := range ids {
		if e, ok := f.data[id]; ok {
			out[id] = e
		} else {
			out[id] = &domain.Enrichment{}
		}
	}

	return out, nil
}

type inlineSnapshots struct {
	runs int
}

func (s *inlineSnapshots) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	s.runs++
	return fn(ctx)
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	cleared []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}

	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl

	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)

	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = append(c.cleared, prefix)
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}

	return nil
}

func (c *memCache) ttlValues() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]time.Duration, 0, len(c.ttls))
	for _, ttl := range c.ttls {
		out = append(out, ttl)
	}

	return out
}

func (c *memCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.data)
}

type fakeTagCounts struct {
	tags   []domain.TagCount
	err    error
	calls  int
	limits []int
}

func (f *fakeTagCounts) TagCounts(_ context.Context, _ domain.FilterMetaParams, limit int) ([]domain.TagCount, error) {
	f.calls++
	f.limits = append(f.limits, limit)

	return f.tags, f.err
}

type fakeFavorites struct {
	rows map[string]bool
	err  error
}

func (f *fakeFavorites) Add(_ context.Context, userID, storeID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := userID + "/" + storeID
	if f.rows[key] {
		return false, nil
	}
	f.rows[key] = true

	return true, nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID, storeID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := userID + "/" + storeID
	existed := f.rows[key]
	delete(f.rows, key)

	return existed, nil
}

type fakeDeals struct {
	expired int64
	err     error
	at      []time.Time
}

func (f *fakeDeals) ExpireEnded(_ context.Context, now time.Time) (int64, error) {
	f.at = append(f.at, now)

	return f.expired, f.err
}

type fakeMorningSales struct {
	sales  []domain.MorningSale
	err    error
	at     []time.Time
	limits []int
}

func (f *fakeMorningSales) ListMorningSales(_ context.Context, now time.Time, limit int) ([]domain.MorningSale, error) {
	f.at = append(f.at, now)
	f.limits = append(f.limits, limit)

	return f.sales, f.err
}
