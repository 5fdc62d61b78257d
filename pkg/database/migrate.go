package database

import (
	"database/sql"
	"fmt"
	"os"
)

// SchemaPath locates the bookhub schema file. The default assumes the
// process runs from the repo root; BOOKHUB_SCHEMA_PATH overrides it for
// installs that ship the schema elsewhere.
func SchemaPath() string {
	if p := os.Getenv("BOOKHUB_SCHEMA_PATH"); p != "" {
		return p
	}
	return "docs/schema.sql"
}

// Migrate applies the bookhub schema. Every statement in the schema is
// IF NOT EXISTS, so applying on every start is safe; the whole file runs
// in one transaction so a failed start never leaves half a schema.
func Migrate(db *sql.DB) error {
	path := SchemaPath()
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	if _, err := tx.Exec(string(b)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply schema %s: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
