package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS personas (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		version     TEXT    NOT NULL DEFAULT '',
		content     TEXT    NOT NULL,
		experiences TEXT    NOT NULL DEFAULT '',
		restricted  INTEGER NOT NULL DEFAULT 0,
		english     INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		UNIQUE (name, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_personas_name ON personas(name)`,
}

// migrate brings the database schema up to schemaVersion. Re-running it
// against an up-to-date database is a no-op.
func migrate(db *sql.DB) error {
	ctx := context.TODO()

	if _, err := db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	var have int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&have); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}
	if have >= schemaVersion {
		return nil
	}

	for _, ddl := range schemaStatements {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("sqlite: migrate: %w\nstatement: %s", err, ddl)
		}
	}

	_, err := db.ExecContext(ctx,
		"INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion)
	if err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}
	return nil
}
