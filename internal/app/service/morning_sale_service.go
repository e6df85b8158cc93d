package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"store-search-service/internal/domain"
)

// MorningSaleService lists the stores running a deal right now.
type MorningSaleService struct {
	deals  domain.MorningSaleRepository
	cache  *responseCache
	clock  domain.Clock
	limit  int
	logger *zap.Logger
}

// NewMorningSaleService creates a new MorningSaleService. cache may be nil;
// limit <= 0 selects domain.DefaultMorningSaleLimit.
func NewMorningSaleService(
	deals domain.MorningSaleRepository,
	cache domain.Cache,
	clock domain.Clock,
	ttl time.Duration,
	limit int,
	logger *zap.Logger,
) *MorningSaleService {
	if limit <= 0 {
		limit = domain.DefaultMorningSaleLimit
	}

	return &MorningSaleService{
		deals:  deals,
		cache:  newResponseCache(cache, morningSaleCacheNamespace, ttl, logger),
		clock:  clock,
		limit:  limit,
		logger: logger,
	}
}

// ListMorningSales returns the stores with a deal valid now, newest deal
// first. No deal running is an empty list.
func (s *MorningSaleService) ListMorningSales(ctx context.Context) ([]domain.MorningSale, error) {
	now := s.clock.Now()

	var (
		key string
		ttl time.Duration
	)
	if s.cache.enabled() {
		var (
			window time.Time
			err    error
		)
		window, ttl = s.cache.window(now)
		key, err = cacheKey(morningSaleCacheNamespace, struct {
			Limit  int
			Window int64
		}{s.limit, window.Unix()})
		if err != nil {
			return nil, fmt.Errorf("building cache key: %w", err)
		}
		var cached []domain.MorningSale
		if s.cache.get(ctx, key, &cached) {
			return cached, nil
		}
	}

	sales, err := s.deals.ListMorningSales(ctx, now, s.limit)
	if err != nil {
		return nil, fmt.Errorf("listing morning sales: %w", err)
	}
	if sales == nil {
		sales = []domain.MorningSale{}
	}

	s.logger.Debug("listed morning sales", zap.Int("count", len(sales)))

	if key != "" {
		s.cache.setFor(ctx, key, sales, ttl)
	}

	return sales, nil
}
