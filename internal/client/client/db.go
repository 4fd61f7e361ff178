package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/linkproof/internal/client/migrations"
	"github.com/dmitrijs2005/linkproof/internal/client/repositories/history"
	"github.com/dmitrijs2005/linkproof/internal/client/repositories/session"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Session session.Repository
	History history.Repository
	db      *sql.DB
}

// Close releases the underlying database.
func (r *Repositories) Close() error {
	return r.db.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database at dsn and brings its schema
// up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrLocalDataNotAvailable, err)
	}

	return &Repositories{
		Session: session.NewSQLiteRepository(db),
		History: history.NewSQLiteRepository(db),
		db:      db,
	}, nil
}
