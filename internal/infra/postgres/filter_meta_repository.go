package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"store-search-service/internal/domain"
)

type tagCountRow struct {
	ID         string
	Name       string
	Type       string
	StoreCount int64
}

// FilterMetaRepository implements domain.FilterMetaRepository.
type FilterMetaRepository struct {
	db *gorm.DB
}

// NewFilterMetaRepository creates a new filter metadata repository.
func NewFilterMetaRepository(db *gorm.DB) *FilterMetaRepository {
	return &FilterMetaRepository{db: db}
}

// TagCounts counts active stores per tag. Without a geo scope every tag is
// listed, including those with no active store; with one only tags carried
// by a store inside the radius appear.
func (r *FilterMetaRepository) TagCounts(ctx context.Context, params domain.FilterMetaParams, limit int) ([]domain.TagCount, error) {
	var rows []tagCountRow
	if err := r.buildTagCountQuery(conn(ctx, r.db), params, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("counting tags: %w", err)
	}

	out := make([]domain.TagCount, len(rows))
	for i, row := range rows {
		out[i] = domain.TagCount{ID: row.ID, Name: row.Name, Type: row.Type, Count: row.StoreCount}
	}

	return out, nil
}

func (r *FilterMetaRepository) buildTagCountQuery(db *gorm.DB, params domain.FilterMetaParams, limit int) *gorm.DB {
	query := db.Table("tags AS t").
		Select("t.id, t.name, COALESCE(t.type, '') AS type, COUNT(s.id) AS store_count")

	if origin, radius, ok := params.GeoScope(); ok {
		query = query.
			Joins("JOIN store_tags st ON st.tag_id = t.id").
			Joins("JOIN stores s ON s.id = st.store_id AND s.is_active").
			Where("s.latitude IS NOT NULL AND s.longitude IS NOT NULL AND ? <= ?", distanceExpr(origin), radius)
	} else {
		query = query.
			Joins("LEFT JOIN store_tags st ON st.tag_id = t.id").
			Joins("LEFT JOIN stores s ON s.id = st.store_id AND s.is_active")
	}

	if tagType := strings.TrimSpace(params.TagType); tagType != "" {
		query = query.Where("LOWER(t.type) = LOWER(?)", tagType)
	}

	if limit <= 0 {
		limit = domain.DefaultTagFacetLimit
	}

	return query.
		Group("t.id, t.name, t.type").
		Order("store_count DESC, t.name ASC, t.id ASC").
		Limit(limit)
}
