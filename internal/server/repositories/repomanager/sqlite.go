package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/linkproof/internal/dbx"
	"github.com/dmitrijs2005/linkproof/internal/server/migrations"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories for single-node
// deployments and local development.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Receipts(db dbx.DBTX) receipts.Repository {
	return receipts.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "sqlite3", migrations.SQLite)
}

func migrate(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
