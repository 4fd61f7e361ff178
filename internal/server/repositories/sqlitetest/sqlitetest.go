// Package sqlitetest opens migrated in-memory SQLite databases for repository
// tests.
package sqlitetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/linkproof/internal/server/migrations"
)

// Open returns a fresh in-memory database with every SQLite migration
// applied. The pool is pinned to one connection so all queries see the same
// memory database.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	return db
}
