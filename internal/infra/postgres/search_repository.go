package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-search-service/internal/domain"
)

// storeHitRow is one row of the hitColumns projection.
type storeHitRow struct {
	ID              string
	Name            string
	Address         string
	RepImageURL     string
	RatingAvg       decimal.NullDecimal
	RatingCount     int
	DistanceKm      *float64
	BestDiscountPct int
	PopularityScore float64
	IsFavorite      bool
}

func (r *storeHitRow) toDomain() domain.StoreHit {
	return domain.StoreHit{
		ID:                  r.ID,
		Name:                r.Name,
		Address:             r.Address,
		ImageURL:            r.RepImageURL,
		DistanceKm:          r.DistanceKm,
		RatingAvg:           decimalPtr(r.RatingAvg),
		RatingCount:         r.RatingCount,
		BestDiscountPercent: r.BestDiscountPct,
		PopularityScore:     r.PopularityScore,
		IsFavorite:          r.IsFavorite,
	}
}

// SearchRepository implements domain.StoreSearchRepository using PostgreSQL.
type SearchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new store search repository.
func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search counts every active store matching the predicate, then fetches the
// requested page in a total order.
func (r *SearchRepository) Search(ctx context.Context, q domain.SearchQuery) (*domain.StorePage, error) {
	order, err := orderSQL(q.Order)
	if err != nil {
		return nil, err
	}

	db := conn(ctx, r.db)

	countQuery, err := r.buildSearchQuery(db, q.Predicate)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting stores: %w", err)
	}

	page := &domain.StorePage{Hits: []domain.StoreHit{}, Total: total}
	if total == 0 || int64(q.Offset) >= total {
		return page, nil
	}

	pageQuery, err := r.buildSearchQuery(db, q.Predicate)
	if err != nil {
		return nil, err
	}

	cols := hitColumns(q.Predicate.Origin, q.Predicate.Now, q.UserID)

	var rows []storeHitRow
	err = pageQuery.
		Select(cols.SQL, cols.Vars...).
		Order(clause.OrderBy{Expression: gorm.Expr(order)}).
		Offset(q.Offset).
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("searching stores: %w", err)
	}

	page.Hits = make([]domain.StoreHit, len(rows))
	for i := range rows {
		page.Hits[i] = rows[i].toDomain()
	}

	return page, nil
}

// FindHit loads one active store with the search projection and no origin.
func (r *SearchRepository) FindHit(ctx context.Context, storeID, userID string, now time.Time) (*domain.StoreHit, error) {
	cols := hitColumns(nil, now, userID)

	var rows []storeHitRow
	err := conn(ctx, r.db).
		Table("stores AS s").
		Select(cols.SQL, cols.Vars...).
		Where("s.id = ? AND s.is_active", storeID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("getting store by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil // Not found
	}

	hit := rows[0].toDomain()

	return &hit, nil
}

// Exists reports whether an active store with the id exists.
func (r *SearchRepository) Exists(ctx context.Context, storeID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Table("stores AS s").
		Where("s.id = ? AND s.is_active", storeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking store: %w", err)
	}

	return count > 0, nil
}

// buildSearchQuery builds the FROM and WHERE clauses of a search. All
// parameters are bound.
func (r *SearchRepository) buildSearchQuery(db *gorm.DB, pred domain.Predicate) (*gorm.DB, error) {
	query := db.Table("stores AS s").Where("s.is_active = ?", true)

	for _, c := range pred.Conditions {
		expr, err := conditionExpr(c)
		if err != nil {
			return nil, err
		}
		query = query.Where(expr)
	}

	return query, nil
}
