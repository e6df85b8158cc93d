package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addSearchIndexes adds the indexes the store search relies on.
//
// Every child-table filter is an EXISTS probe keyed by store_id, so each
// child table gets a store_id-leading index. Keyword matching uses
// LOWER(col) LIKE, which a trigram index can serve when pg_trgm is
// available; the extension is optional and its absence is not an error.
func addSearchIndexes() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_add_search_indexes",
		Migrate: func(tx *gorm.DB) error {
			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_stores_active_category ON stores(is_active, LOWER(category_id))",
				"CREATE INDEX IF NOT EXISTS idx_stores_lower_name ON stores(LOWER(name))",
				"CREATE INDEX IF NOT EXISTS idx_store_tags_tag ON store_tags(tag_id, store_id)",
				"CREATE INDEX IF NOT EXISTS idx_menu_items_store_order ON menu_items(store_id, sort_order, created_at)",
				"CREATE INDEX IF NOT EXISTS idx_deals_store_status ON earlybird_deals(store_id, status)",
				"CREATE INDEX IF NOT EXISTS idx_deals_status_until ON earlybird_deals(status, valid_until)",
				"CREATE INDEX IF NOT EXISTS idx_user_favorites_store ON user_favorites(store_id)",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			// Trigram support is best-effort.
			if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err == nil {
				_ = tx.Exec("CREATE INDEX IF NOT EXISTS idx_stores_name_trgm ON stores USING GIN (LOWER(name) gin_trgm_ops)").Error
				_ = tx.Exec("CREATE INDEX IF NOT EXISTS idx_menu_items_name_trgm ON menu_items USING GIN (LOWER(name) gin_trgm_ops)").Error
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			for _, idx := range []string{
				"idx_menu_items_name_trgm", "idx_stores_name_trgm",
				"idx_user_favorites_store", "idx_deals_status_until", "idx_deals_store_status",
				"idx_menu_items_store_order", "idx_store_tags_tag",
				"idx_stores_lower_name", "idx_stores_active_category",
			} {
				_ = tx.Exec("DROP INDEX IF EXISTS " + idx).Error
			}

			return nil
		},
	}
}
