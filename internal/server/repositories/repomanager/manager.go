// Package repomanager vends dialect-specific repositories bound to a
// dbx.DBTX and runs the matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/dbx"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Receipts(db dbx.DBTX) receipts.Repository
}

// New returns the RepositoryManager for driver ("pgx" or "sqlite").
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case "pgx":
		return &PostgresRepositoryManager{}, nil
	case "sqlite":
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
