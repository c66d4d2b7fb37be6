package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS types (
		id            TEXT PRIMARY KEY,
		is_group      INTEGER NOT NULL DEFAULT 0,
		name          TEXT NOT NULL,
		parent_id     TEXT,
		display_order INTEGER NOT NULL DEFAULT 0,
		color         INTEGER NOT NULL DEFAULT 0,
		deleted       INTEGER NOT NULL DEFAULT 0,
		revision      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS intervals (
		id          TEXT PRIMARY KEY,
		type_id     TEXT NOT NULL,
		from_ts     INTEGER NOT NULL,
		to_ts       INTEGER NOT NULL,
		delta       INTEGER NOT NULL,
		comment     TEXT,
		activity_id TEXT NOT NULL DEFAULT '',
		CHECK(from_ts <= to_ts)
	)`,
	`ALTER TABLE types ADD COLUMN image_id TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_intervals_to ON intervals(to_ts)`,
	`CREATE INDEX IF NOT EXISTS idx_intervals_type ON intervals(type_id)`,
	`CREATE INDEX IF NOT EXISTS idx_types_parent ON types(parent_id)`,
}

// Migrate runs all schema migrations. It is safe to run repeatedly.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
