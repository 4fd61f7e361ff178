// Package migrations embeds the goose SQL migrations for every supported
// database dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var all embed.FS

// Postgres holds the migrations for the pgx dialect.
var Postgres = mustSub("postgres")

// SQLite holds the migrations for the sqlite3 dialect.
var SQLite = mustSub("sqlite")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(all, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
