package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/metrics"
)

// Cache key namespaces.
const (
	searchCacheNamespace      = "search"
	filtersCacheNamespace     = "filters"
	morningSaleCacheNamespace = "morning-sale"
)

// responseCache stores JSON-encoded responses. Every cache failure is logged
// and treated as a miss; the database stays the source of truth.
type responseCache struct {
	cache  domain.Cache
	name   string
	ttl    time.Duration
	logger *zap.Logger
}

func newResponseCache(cache domain.Cache, name string, ttl time.Duration, logger *zap.Logger) *responseCache {
	return &responseCache{cache: cache, name: name, ttl: ttl, logger: logger}
}

func (c *responseCache) enabled() bool {
	return c.cache != nil && c.ttl > 0
}

// get decodes the cached value for key into dst and reports whether it did.
func (c *responseCache) get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		metrics.RecordCache(c.name, metrics.CacheError)
		return false
	}
	if data == nil {
		metrics.RecordCache(c.name, metrics.CacheMiss)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		metrics.RecordCache(c.name, metrics.CacheError)
		return false
	}

	metrics.RecordCache(c.name, metrics.CacheHit)
	return true
}

func (c *responseCache) set(ctx context.Context, key string, v any) {
	c.setFor(ctx, key, v, c.ttl)
}

// window returns the start of the TTL-aligned window holding now and the time
// left until it closes.
func (c *responseCache) window(now time.Time) (time.Time, time.Duration) {
	start := now.Truncate(c.ttl)

	return start, start.Add(c.ttl).Sub(now)
}

func (c *responseCache) setFor(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.enabled() || ttl <= 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops every entry of namespace.
func invalidate(ctx context.Context, cache domain.Cache, namespace string, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.DeletePrefix(ctx, namespace+":"); err != nil {
		logger.Warn("cache invalidation failed", zap.String("namespace", namespace), zap.Error(err))
	}
}

// cacheKey derives a stable key from the JSON form of v.
func cacheKey(namespace string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)

	return namespace + ":" + hex.EncodeToString(sum[:]), nil
}
