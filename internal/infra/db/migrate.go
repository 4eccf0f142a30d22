package db

import (
	"database/sql"
)

// MigrateUp creates the schema for the given driver if it does not exist.
// The articles table is shared by both drivers; only the timestamp default
// differs between PostgreSQL and SQLite.
func MigrateUp(db *sql.DB, driver string) error {
	createdAtDefault := "now()"
	if driver == DriverSQLite {
		createdAtDefault = "CURRENT_TIMESTAMP"
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id                  TEXT PRIMARY KEY,
    slug                TEXT NOT NULL UNIQUE,
    title               TEXT NOT NULL,
    content             TEXT NOT NULL,
    author_id           TEXT NOT NULL,
    author_display_name TEXT NOT NULL,
    upvotes             INTEGER NOT NULL DEFAULT 0,
    downvotes           INTEGER NOT NULL DEFAULT 0,
    created_at          TIMESTAMP NOT NULL DEFAULT ` + createdAtDefault + `
)`); err != nil {
		return err
	}

	indexes := []string{
		// ORDER BY created_at DESC is used by every listing query
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
		// Account deletion removes all articles by author
		`CREATE INDEX IF NOT EXISTS idx_articles_author_id ON articles(author_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown rolls back the database schema.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_articles_created_at`,
		`DROP INDEX IF EXISTS idx_articles_author_id`,
		`DROP TABLE IF EXISTS articles`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
