package domain

import (
	"context"
	"time"
)

// SearchQuery is a fully resolved store search.
type SearchQuery struct {
	Predicate Predicate
	Order     []OrderTerm
	Offset    int
	Limit     int
	UserID    string
}

// StoreSearchRepository executes store searches.
// Implementations: internal/infra/postgres/search_repository.go
type StoreSearchRepository interface {
	// Search returns the requested page and the total match count.
	Search(ctx context.Context, q SearchQuery) (*StorePage, error)

	// FindHit returns one active store projected like a search row.
	// Returns nil, nil when the store is missing or inactive.
	FindHit(ctx context.Context, storeID, userID string, now time.Time) (*StoreHit, error)

	// Exists reports whether an active store with the id exists.
	Exists(ctx context.Context, storeID string) (bool, error)
}

// EnrichOptions selects optional collections for EnrichmentLoader.
type EnrichOptions struct {
	Now       time.Time // deal validity instant
	WithHours bool
}

// EnrichmentLoader loads per-store collections for a page of ids with one
// round trip per collection type.
// Implementations: internal/infra/postgres/enrichment_repository.go
type EnrichmentLoader interface {
	Load(ctx context.Context, storeIDs []string, opts EnrichOptions) (map[string]*Enrichment, error)
}

// FilterMetaRepository computes the tag histogram.
type FilterMetaRepository interface {
	TagCounts(ctx context.Context, params FilterMetaParams, limit int) ([]TagCount, error)
}

// FavoriteRepository persists user favorites.
type FavoriteRepository interface {
	// Add records the favorite. A duplicate is a no-op reporting false.
	Add(ctx context.Context, userID, storeID string) (bool, error)

	// Remove hard-deletes the favorite, reporting whether one existed.
	Remove(ctx context.Context, userID, storeID string) (bool, error)
}

// DealRepository maintains deal lifecycle state.
type DealRepository interface {
	// ExpireEnded marks ACTIVE deals whose validity ended before now as EXPIRED.
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

// MorningSaleRepository lists stores running a deal right now.
// Implementations: internal/infra/postgres/deal_repository.go
type MorningSaleRepository interface {
	// ListMorningSales returns at most limit active stores with a deal valid at
	// now, one row per store carrying its newest valid deal, newest first.
	ListMorningSales(ctx context.Context, now time.Time, limit int) ([]MorningSale, error)
}

// SnapshotRunner runs fn so that every repository call made with the
// context it receives observes the same database snapshot.
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every value whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Clock supplies the current instant in the service time zone.
type Clock interface {
	Now() time.Time
}
