package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"store-search-service/internal/domain"
)

// FilterService builds the filter metadata clients render their search UI from.
type FilterService struct {
	repo   domain.FilterMetaRepository
	cache  *responseCache
	limit  int
	logger *zap.Logger
}

// NewFilterService creates a new FilterService. cache may be nil; limit <= 0
// selects domain.DefaultTagFacetLimit.
func NewFilterService(repo domain.FilterMetaRepository, cache domain.Cache, ttl time.Duration, limit int, logger *zap.Logger) *FilterService {
	if limit <= 0 {
		limit = domain.DefaultTagFacetLimit
	}

	return &FilterService{
		repo:   repo,
		cache:  newResponseCache(cache, filtersCacheNamespace, ttl, logger),
		limit:  limit,
		logger: logger,
	}
}

// GetFilters returns the curated options and the tag histogram, geo-scoped
// when the params carry a full origin and radius.
func (s *FilterService) GetFilters(ctx context.Context, params domain.FilterMetaParams) (*domain.FilterMeta, error) {
	params.TagType = strings.TrimSpace(params.TagType)

	if origin, radius, ok := params.GeoScope(); ok {
		if err := origin.Validate(); err != nil {
			return nil, err
		}
		if radius <= 0 || math.IsNaN(radius) {
			return nil, fmt.Errorf("%w: radius_km must be positive", domain.ErrInvalidArgument)
		}
	}

	var key string
	if s.cache.enabled() {
		var err error
		key, err = cacheKey(filtersCacheNamespace, params)
		if err != nil {
			return nil, fmt.Errorf("building cache key: %w", err)
		}
		var cached domain.FilterMeta
		if s.cache.get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	tags, err := s.repo.TagCounts(ctx, params, s.limit)
	if err != nil {
		return nil, fmt.Errorf("counting tags: %w", err)
	}

	meta := domain.NewFilterMeta(tags)
	if key != "" {
		s.cache.set(ctx, key, meta)
	}

	return meta, nil
}
