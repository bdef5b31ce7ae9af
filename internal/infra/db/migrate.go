package db

import (
	"database/sql"
	"fmt"
)

// MigrateUp creates the schema if it does not exist. The UNIQUE constraint
// on url is load-bearing: overlapping aggregator runs are not mutually
// excluded, so a racing duplicate insert must fail at the store rather
// than slip through the check-then-act window.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id           BIGSERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    category     VARCHAR(32) NOT NULL,
    source       TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    published_at TIMESTAMPTZ NOT NULL,
    image_url    TEXT,
    tags         TEXT[] NOT NULL DEFAULT '{}',
    status       VARCHAR(20) NOT NULL DEFAULT 'published',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    created_by   TEXT NOT NULL
)`); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}

	indexes := []string{
		// news page ordering
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		// category filter on the public list
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
	}
	for _, stmt := range indexes {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}
