package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Store is the process-wide database handle together with the repository
// manager for its dialect. It is opened once at startup and closed at
// shutdown.
type Store struct {
	DB      *sql.DB
	Manager RepositoryManager
	pool    *pgxpool.Pool
}

// Open connects to the database, verifies it answers, and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	m, err := New(driver)
	if err != nil {
		return nil, err
	}

	s := &Store{Manager: m}
	switch driver {
	case "pgx":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("create pool: %w", err)
		}
		s.pool = pool
		s.DB = stdlib.OpenDBFromPool(pool)
	default:
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driver, err)
		}
		// one writer avoids SQLITE_BUSY and keeps :memory: databases shared
		db.SetMaxOpenConns(1)
		s.DB = db
	}

	if err := s.DB.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := m.RunMigrations(ctx, s.DB); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) Close() error {
	err := s.DB.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
