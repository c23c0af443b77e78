package db

import "database/sql"

// MigrateUp creates the article schema if it does not exist. The UNIQUE
// constraint on link is the store's only idempotency mechanism; overlapping
// runs rely on it instead of explicit locking.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id           SERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    author       TEXT,
    publish_date TEXT,
    link         TEXT UNIQUE NOT NULL,
    content      TEXT,
    summary      TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// Backlog scan: summary IS NULL OR summary = ''
		`CREATE INDEX IF NOT EXISTS idx_articles_pending
		    ON articles(id) WHERE summary IS NULL OR summary = ''`,
		// Recent-articles listing for the read-only API
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the article schema. Use with caution: this deletes all
// ingested articles and their summaries.
func MigrateDown(database *sql.DB) error {
	_, err := database.Exec(`DROP TABLE IF EXISTS articles`)
	return err
}
