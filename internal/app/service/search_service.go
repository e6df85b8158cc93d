// Package service provides application use cases.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/metrics"
)

// SearchOptions tunes StoreSearchService.
type SearchOptions struct {
	MaxPageSize  int
	QueryTimeout time.Duration // zero disables the per-search deadline
	CacheTTL     time.Duration // zero disables result caching
}

// StoreSearchService runs store searches and single-store lookups.
type StoreSearchService struct {
	stores    domain.StoreSearchRepository
	enricher  domain.EnrichmentLoader
	snapshots domain.SnapshotRunner
	clock     domain.Clock
	cache     *responseCache
	opts      SearchOptions
	logger    *zap.Logger
}

// NewStoreSearchService creates a new StoreSearchService. cache may be nil.
func NewStoreSearchService(
	stores domain.StoreSearchRepository,
	enricher domain.EnrichmentLoader,
	snapshots domain.SnapshotRunner,
	cache domain.Cache,
	clock domain.Clock,
	opts SearchOptions,
	logger *zap.Logger,
) *StoreSearchService {
	return &StoreSearchService{
		stores:    stores,
		enricher:  enricher,
		snapshots: snapshots,
		clock:     clock,
		cache:     newResponseCache(cache, searchCacheNamespace, opts.CacheTTL, logger),
		opts:      opts,
		logger:    logger,
	}
}

// searchCacheKey holds everything an anonymous result depends on. Deal
// validity is evaluated at the request instant, so entries are scoped to the
// TTL-aligned window that instant falls in.
type searchCacheKey struct {
	Params domain.SearchParams
	OpenAt *domain.OpenAtCondition
	Window int64
}

// Search returns one page of enriched store summaries. An empty page is a
// valid result, never an error.
func (s *StoreSearchService) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	params.Normalize(s.opts.MaxPageSize)
	params.Sort = domain.ParseSortKey(string(params.Sort))

	now := s.clock.Now()
	pred, err := domain.BuildPredicate(params, now)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("searching stores",
		zap.String("keyword", params.Keyword),
		zap.Int("conditions", len(pred.Conditions)),
		zap.String("sort", string(params.Sort)),
		zap.Int("page", params.Page),
		zap.Int("size", params.Size),
	)

	// Favorite flags are per user, so only anonymous pages are shared.
	var (
		key      string
		cacheTTL time.Duration
	)
	if params.UserID == "" && s.cache.enabled() {
		var window time.Time
		window, cacheTTL = s.cache.window(now)
		key, err = cacheKey(searchCacheNamespace, searchCacheKey{Params: params, OpenAt: pred.OpenAt, Window: window.Unix()})
		if err != nil {
			return nil, fmt.Errorf("building cache key: %w", err)
		}
		var cached domain.SearchResult
		if s.cache.get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	query := domain.SearchQuery{
		Predicate: pred,
		Order:     domain.OrderFor(params.Sort, pred.Origin != nil),
		Offset:    params.Offset(),
		Limit:     params.Limit(),
		UserID:    params.UserID,
	}

	var (
		page     *domain.StorePage
		enriched map[string]*domain.Enrichment
	)
	err = s.snapshots.ReadSnapshot(ctx, func(ctx context.Context) error {
		start := time.Now()
		var err error
		page, err = s.stores.Search(ctx, query)
		metrics.ObserveSearch(metrics.StageSearch, start)
		if err != nil {
			return fmt.Errorf("querying stores: %w", err)
		}
		if len(page.Hits) == 0 {
			return nil
		}

		start = time.Now()
		enriched, err = s.enricher.Load(ctx, page.IDs(), domain.EnrichOptions{
			Now:       now,
			WithHours: pred.OpenAt != nil,
		})
		metrics.ObserveSearch(metrics.StageEnrich, start)
		if err != nil {
			return fmt.Errorf("enriching stores: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var openAt *time.Time
	if pred.OpenAt != nil {
		at := pred.OpenAt.Instant(now)
		openAt = &at
	}

	items := make([]domain.StoreSummary, len(page.Hits))
	for i, hit := range page.Hits {
		items[i] = domain.Summarize(hit, enriched[hit.ID], openAt)
	}

	result := domain.NewSearchResult(items, page.Total, params)
	metrics.RecordSearchResult(len(items))

	s.logger.Debug("search completed",
		zap.Int64("total", result.Total),
		zap.Int("count", len(result.Items)),
	)

	if key != "" {
		s.cache.setFor(ctx, key, result, cacheTTL)
	}

	return result, nil
}

// GetStore returns the summary of one active store evaluated at the current
// time. Missing or inactive stores yield domain.ErrStoreNotFound.
func (s *StoreSearchService) GetStore(ctx context.Context, storeID, userID string) (*domain.StoreSummary, error) {
	now := s.clock.Now()

	var summary domain.StoreSummary
	err := s.snapshots.ReadSnapshot(ctx, func(ctx context.Context) error {
		hit, err := s.stores.FindHit(ctx, storeID, userID, now)
		if err != nil {
			return fmt.Errorf("finding store %s: %w", storeID, err)
		}
		if hit == nil {
			return domain.ErrStoreNotFound
		}

		enriched, err := s.enricher.Load(ctx, []string{hit.ID}, domain.EnrichOptions{Now: now, WithHours: true})
		if err != nil {
			return fmt.Errorf("enriching store %s: %w", storeID, err)
		}

		summary = domain.Summarize(*hit, enriched[hit.ID], &now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
