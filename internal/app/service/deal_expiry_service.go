package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/metrics"
)

// DealExpiryService moves ended deals out of the ACTIVE state.
type DealExpiryService struct {
	deals  domain.DealRepository
	cache  domain.Cache
	clock  domain.Clock
	logger *zap.Logger
}

// NewDealExpiryService creates a new DealExpiryService. cache may be nil.
func NewDealExpiryService(deals domain.DealRepository, cache domain.Cache, clock domain.Clock, logger *zap.Logger) *DealExpiryService {
	return &DealExpiryService{
		deals:  deals,
		cache:  cache,
		clock:  clock,
		logger: logger,
	}
}

// ExpireEnded marks every ACTIVE deal whose validity ended as EXPIRED and
// returns how many changed.
func (s *DealExpiryService) ExpireEnded(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	n, err := s.deals.ExpireEnded(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expiring deals: %w", err)
	}

	metrics.AddExpiredDeals(n)
	if n > 0 {
		invalidate(ctx, s.cache, searchCacheNamespace, s.logger)
		invalidate(ctx, s.cache, morningSaleCacheNamespace, s.logger)
	}

	s.logger.Info("expired ended deals",
		zap.Int64("count", n),
		zap.Time("now", now),
	)

	return n, nil
}
