package database

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	t.Setenv("BOOKHUB_SCHEMA_PATH", "../../docs/schema.sql")

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	// idempotent: the schema is all IF NOT EXISTS
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "records", "record_status_history", "notes"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestMigrateMissingSchema(t *testing.T) {
	t.Setenv("BOOKHUB_SCHEMA_PATH", "no/such/schema.sql")

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.Error(t, Migrate(db))
}
