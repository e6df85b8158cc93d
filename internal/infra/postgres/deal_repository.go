package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"store-search-service/internal/domain"
)

// DealRepository implements domain.DealRepository.
type DealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new deal repository.
func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

// ExpireEnded flips ACTIVE deals whose valid_until is before now to EXPIRED.
// Search already ignores such deals; this keeps the stored status honest.
func (r *DealRepository) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Model(&DealModel{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", string(domain.DealStatusActive), now).
		UpdateColumns(map[string]interface{}{
			"status":     string(domain.DealStatusExpired),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("expiring deals: %w", result.Error)
	}

	return result.RowsAffected, nil
}

type morningSaleRow struct {
	StoreID     string
	StoreName   string
	RepImageURL string
	DealID      string
	DisplayText string
	CreatedAt   time.Time
}

// ListMorningSales picks the newest valid deal of every active store with
// DISTINCT ON, then orders the stores by that deal's creation time. A blank
// display text falls back to the deal title.
func (r *DealRepository) ListMorningSales(ctx context.Context, now time.Time, limit int) ([]domain.MorningSale, error) {
	vars := append(validDealVars(now), limit)

	var rows []morningSaleRow
	err := conn(ctx, r.db).Raw(`
		SELECT latest.store_id, latest.store_name, latest.rep_image_url,
			latest.deal_id, latest.display_text, latest.created_at
		FROM (
			SELECT DISTINCT ON (d.store_id)
				d.store_id, s.name AS store_name,
				COALESCE(s.rep_image_url, '') AS rep_image_url,
				d.id AS deal_id,
				COALESCE(NULLIF(TRIM(d.display_text), ''), d.title) AS display_text,
				d.created_at
			FROM earlybird_deals d
			JOIN stores s ON s.id = d.store_id AND s.is_active
			WHERE `+validDealSQL("d")+`
			ORDER BY d.store_id, d.created_at DESC, d.id DESC
		) latest
		ORDER BY latest.created_at DESC, latest.store_id
		LIMIT ?`, vars...).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing morning sales: %w", err)
	}

	sales := make([]domain.MorningSale, len(rows))
	for i, row := range rows {
		sales[i] = domain.MorningSale{
			StoreID:     row.StoreID,
			StoreName:   row.StoreName,
			RepImageURL: row.RepImageURL,
			DealID:      row.DealID,
			DisplayText: row.DisplayText,
			DealCreated: row.CreatedAt,
		}
	}

	return sales, nil
}
