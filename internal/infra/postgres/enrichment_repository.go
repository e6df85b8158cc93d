package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"store-search-service/internal/domain"
)

type storeNameRow struct {
	StoreID string
	Name    string
}

func storeNameKey(r *storeNameRow) string { return r.StoreID }

var (
	categoryQuery = childQuery[storeNameRow]{
		name: "categories",
		build: func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Table("stores AS s").
				Select("s.id AS store_id, c.name").
				Joins("JOIN categories c ON c.id = s.category_id").
				Where("s.id IN ?", ids).
				Order("s.id, c.name")
		},
		key: storeNameKey,
	}

	tagQuery = childQuery[storeNameRow]{
		name: "tags",
		build: func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Table("store_tags AS st").
				Distinct("st.store_id", "t.name").
				Joins("JOIN tags t ON t.id = st.tag_id").
				Where("st.store_id IN ?", ids).
				Order("st.store_id, t.name")
		},
		key: storeNameKey,
	}

	menuQuery = childQuery[storeNameRow]{
		name: "menu items",
		build: func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Raw(`
				SELECT ranked.store_id, ranked.name
				FROM (
					SELECT mi.store_id, mi.name,
						ROW_NUMBER() OVER (PARTITION BY mi.store_id ORDER BY mi.sort_order, mi.created_at, mi.id) AS rn
					FROM menu_items mi
					WHERE mi.store_id IN ?
				) ranked
				WHERE ranked.rn <= ?
				ORDER BY ranked.store_id, ranked.rn`,
				ids, domain.MaxMenuExcerpt,
			)
		},
		key: storeNameKey,
	}

	hoursQuery = childQuery[OpenHourModel]{
		name: "open hours",
		build: func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Model(&OpenHourModel{}).
				Where("store_id IN ?", ids).
				Order("store_id, day_of_week")
		},
		key: func(m *OpenHourModel) string { return m.StoreID },
	}
)

func dealQuery(now time.Time) childQuery[DealModel] {
	return childQuery[DealModel]{
		name: "deals",
		build: func(db *gorm.DB, ids []string) *gorm.DB {
			return db.Table("earlybird_deals AS d").
				Where("d.store_id IN ?", ids).
				Where(validDealSQL("d"), validDealVars(now)...).
				Order("d.store_id, d.created_at, d.id")
		},
		key: func(m *DealModel) string { return m.StoreID },
	}
}

// EnrichmentRepository implements domain.EnrichmentLoader with one statement
// per collection type, whatever the page size.
type EnrichmentRepository struct {
	db *gorm.DB
}

// NewEnrichmentRepository creates a new enrichment loader.
func NewEnrichmentRepository(db *gorm.DB) *EnrichmentRepository {
	return &EnrichmentRepository{db: db}
}

// Load returns an Enrichment for every id, empty when a store has no rows.
func (r *EnrichmentRepository) Load(ctx context.Context, storeIDs []string, opts domain.EnrichOptions) (map[string]*domain.Enrichment, error) {
	out := make(map[string]*domain.Enrichment, len(storeIDs))
	for _, id := range storeIDs {
		out[id] = &domain.Enrichment{}
	}
	if len(storeIDs) == 0 {
		return out, nil
	}

	db := conn(ctx, r.db)

	categories, err := categoryQuery.load(db, storeIDs)
	if err != nil {
		return nil, err
	}
	tags, err := tagQuery.load(db, storeIDs)
	if err != nil {
		return nil, err
	}
	menus, err := menuQuery.load(db, storeIDs)
	if err != nil {
		return nil, err
	}
	deals, err := dealQuery(opts.Now).load(db, storeIDs)
	if err != nil {
		return nil, err
	}

	for id, e := range out {
		e.Categories = names(categories[id])
		e.Tags = names(tags[id])
		e.MenuNames = names(menus[id])
		for i := range deals[id] {
			e.Deals = append(e.Deals, deals[id][i].ToDomain())
		}
	}

	if !opts.WithHours {
		return out, nil
	}

	hours, err := hoursQuery.load(db, storeIDs)
	if err != nil {
		return nil, err
	}
	for id, rows := range hours {
		e, ok := out[id]
		if !ok {
			continue
		}
		for i := range rows {
			h, err := rows[i].ToDomain()
			if err != nil {
				return nil, err
			}
			e.Hours = append(e.Hours, h)
		}
	}

	return out, nil
}

func names(rows []storeNameRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}

	return out
}
