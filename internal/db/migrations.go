package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

	`CREATE TABLE IF NOT EXISTS delivery_orders (
		id                UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		platform          TEXT NOT NULL,
		amount            NUMERIC(7,2) NOT NULL DEFAULT 0,
		pickup_address    TEXT NOT NULL,
		dropoff_address   TEXT NOT NULL,
		distance_km       NUMERIC(7,2) NOT NULL DEFAULT 0,
		duration_min      NUMERIC(7,1) NOT NULL DEFAULT 0,
		earnings_per_km   NUMERIC(7,2) NOT NULL DEFAULT 0,
		suggestion        TEXT NOT NULL,
		blacklist_verdict TEXT NOT NULL,
		features          JSONB,
		raw_text          TEXT NOT NULL,
		snapshot_url      TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_orders_platform ON delivery_orders(platform);`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_orders_created_at ON delivery_orders(created_at DESC);`,

	`CREATE TABLE IF NOT EXISTS blacklist_keywords (
		id          UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		keyword     TEXT NOT NULL,
		note        TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_blacklist_keywords_keyword ON blacklist_keywords(keyword);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
