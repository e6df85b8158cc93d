package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createStoreTables creates stores and their child collections.
func createStoreTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_store_tables",
		Migrate: func(tx *gorm.DB) error {
			statements := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id VARCHAR(50) PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					parent_id VARCHAR(50) REFERENCES categories(id)
				)`,
				`CREATE TABLE IF NOT EXISTS stores (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					owner_id VARCHAR(64),
					category_id VARCHAR(50) REFERENCES categories(id),
					name VARCHAR(200) NOT NULL,
					ai_recommendation TEXT,
					phone VARCHAR(30),
					address VARCHAR(300),
					latitude DOUBLE PRECISION,
					longitude DOUBLE PRECISION,
					kakao_place_id VARCHAR(30),
					naver_place_id VARCHAR(30),
					rep_image_url VARCHAR(500),
					rating_avg DECIMAL(3,2),
					rating_count INTEGER NOT NULL DEFAULT 0,
					business_status VARCHAR(20) NOT NULL DEFAULT 'OPEN',
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT ck_stores_latitude CHECK (latitude BETWEEN -90 AND 90),
					CONSTRAINT ck_stores_longitude CHECK (longitude BETWEEN -180 AND 180),
					CONSTRAINT ck_stores_business_status CHECK (business_status IN
						('OPEN_24H', 'OPEN', 'PREPARING', 'CLOSED', 'BREAK_TIME', 'HOLIDAY'))
				)`,
				`CREATE TABLE IF NOT EXISTS tags (
					id VARCHAR(50) PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					type VARCHAR(50)
				)`,
				`CREATE TABLE IF NOT EXISTS store_tags (
					store_id UUID NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
					tag_id VARCHAR(50) NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
					PRIMARY KEY (store_id, tag_id)
				)`,
				`CREATE TABLE IF NOT EXISTS menu_items (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					store_id UUID NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
					name VARCHAR(200) NOT NULL,
					price DECIMAL(10,0) NOT NULL DEFAULT 0 CHECK (price >= 0),
					sort_order INTEGER NOT NULL DEFAULT 1 CHECK (sort_order >= 1),
					created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS store_open_hours (
					id BIGSERIAL PRIMARY KEY,
					store_id UUID NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
					day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
					open_time VARCHAR(5) NOT NULL DEFAULT '00:00',
					close_time VARCHAR(5) NOT NULL DEFAULT '00:00',
					break_start VARCHAR(5),
					break_end VARCHAR(5),
					is_24h BOOLEAN NOT NULL DEFAULT FALSE,

					CONSTRAINT uq_open_hours_store_day UNIQUE (store_id, day_of_week),
					CONSTRAINT ck_open_hours_format CHECK (
						open_time ~ '^([01][0-9]|2[0-3]):[0-5][0-9]$' AND
						close_time ~ '^([01][0-9]|2[0-3]):[0-5][0-9]$'),
					CONSTRAINT ck_open_hours_break CHECK ((break_start IS NULL) = (break_end IS NULL))
				)`,
				`CREATE TABLE IF NOT EXISTS earlybird_deals (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					store_id UUID NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
					title VARCHAR(200) NOT NULL,
					description TEXT,
					discount_value VARCHAR(50) NOT NULL,
					discount_type VARCHAR(10) NOT NULL DEFAULT 'PERCENT' CHECK (discount_type IN ('PERCENT', 'AMOUNT')),
					time_window VARCHAR(20),
					display_text VARCHAR(200),
					status VARCHAR(10) NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'INACTIVE', 'EXPIRED')),
					deal_type VARCHAR(20) NOT NULL DEFAULT 'EARLYBIRD' CHECK (deal_type IN ('EARLYBIRD', 'HAPPY_HOUR', 'SPECIAL')),
					valid_from TIMESTAMPTZ,
					valid_until TIMESTAMPTZ,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT ck_deals_validity CHECK (valid_from IS NULL OR valid_until IS NULL OR valid_from <= valid_until)
				)`,
				`CREATE TABLE IF NOT EXISTS user_favorites (
					id UUID PRIMARY KEY,
					user_id VARCHAR(64) NOT NULL,
					store_id UUID NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
					created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,

					-- Concurrent double-submits collapse onto this constraint
					CONSTRAINT uq_user_favorites_user_store UNIQUE (user_id, store_id)
				)`,
			}

			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			for _, table := range []string{
				"user_favorites", "earlybird_deals", "store_open_hours",
				"menu_items", "store_tags", "tags", "stores", "categories",
			} {
				if err := tx.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
					return err
				}
			}

			return nil
		},
	}
}
