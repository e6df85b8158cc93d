package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository implements domain.FavoriteRepository.
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts the favorite. Concurrent duplicates collapse on the
// (user_id, store_id) unique constraint and report false.
func (r *FavoriteRepository) Add(ctx context.Context, userID, storeID string) (bool, error) {
	model := &FavoriteModel{
		ID:      uuid.NewString(),
		UserID:  userID,
		StoreID: storeID,
	}

	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, fmt.Errorf("adding favorite: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Remove hard-deletes the favorite.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, storeID string) (bool, error) {
	result := conn(ctx, r.db).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Delete(&FavoriteModel{})
	if result.Error != nil {
		return false, fmt.Errorf("removing favorite: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
