package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"store-search-service/internal/domain"
)

// FavoriteService adds and removes user favorites.
type FavoriteService struct {
	stores    domain.StoreSearchRepository
	favorites domain.FavoriteRepository
	cache     domain.Cache
	logger    *zap.Logger
}

// NewFavoriteService creates a new FavoriteService. cache may be nil.
func NewFavoriteService(
	stores domain.StoreSearchRepository,
	favorites domain.FavoriteRepository,
	cache domain.Cache,
	logger *zap.Logger,
) *FavoriteService {
	return &FavoriteService{
		stores:    stores,
		favorites: favorites,
		cache:     cache,
		logger:    logger,
	}
}

// Add favorites the store for the user. It reports whether a new favorite
// was recorded; a duplicate request is not an error.
func (s *FavoriteService) Add(ctx context.Context, userID, storeID string) (bool, error) {
	if err := s.checkStore(ctx, userID, storeID); err != nil {
		return false, err
	}

	added, err := s.favorites.Add(ctx, userID, storeID)
	if err != nil {
		return false, fmt.Errorf("adding favorite: %w", err)
	}
	if added {
		s.changed(ctx)
	}

	s.logger.Debug("favorite added",
		zap.String("user_id", userID),
		zap.String("store_id", storeID),
		zap.Bool("created", added),
	)

	return added, nil
}

// Remove deletes the favorite, reporting whether one existed.
func (s *FavoriteService) Remove(ctx context.Context, userID, storeID string) (bool, error) {
	if err := s.checkStore(ctx, userID, storeID); err != nil {
		return false, err
	}

	removed, err := s.favorites.Remove(ctx, userID, storeID)
	if err != nil {
		return false, fmt.Errorf("removing favorite: %w", err)
	}
	if removed {
		s.changed(ctx)
	}

	return removed, nil
}

func (s *FavoriteService) checkStore(ctx context.Context, userID, storeID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}

	ok, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return fmt.Errorf("checking store %s: %w", storeID, err)
	}
	if !ok {
		return domain.ErrStoreNotFound
	}

	return nil
}

// changed drops cached anonymous pages; favorite counts feed popularity.
func (s *FavoriteService) changed(ctx context.Context) {
	invalidate(ctx, s.cache, searchCacheNamespace, s.logger)
}
