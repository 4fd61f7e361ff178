package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/dbx"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

// SQLiteRepository implements Repository over dbx.DBTX with modernc.org/sqlite.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (s *SQLiteRepository) Create(ctx context.Context, r *models.Receipt) (*models.Receipt, error) {
	prepare(r)

	query :=
		`INSERT INTO receipts (id, digest, filename, created_at, owner_id, contact_email)
		 VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.Digest, r.Filename, r.CreatedAt, ownerArg(r), r.ContactEmail)
	if err != nil {
		return nil, dbx.Classify(fmt.Errorf("db error: %w", err))
	}

	return r, nil
}

func (s *SQLiteRepository) ExistsByDigest(ctx context.Context, digest string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM receipts WHERE digest = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, digest).Scan(&exists); err != nil {
		return false, dbx.Classify(fmt.Errorf("db error: %w", err))
	}
	return exists, nil
}

func (s *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Receipt, error) {
	query :=
		`SELECT id, digest, filename, created_at, owner_id, contact_email
		 FROM receipts
		 WHERE owner_id = ?
		 ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.Classify(fmt.Errorf("db error: %w", err))
	}

	list, err := collect(rows)
	if err != nil {
		return nil, dbx.Classify(fmt.Errorf("db error: %w", err))
	}
	return list, nil
}

func (s *SQLiteRepository) FindByDigest(ctx context.Context, digest string) (*models.Receipt, bool, error) {
	query :=
		`SELECT id, digest, filename, created_at, owner_id, contact_email
		 FROM receipts
		 WHERE digest = ?
		 ORDER BY created_at ASC, id
		 LIMIT 1`

	r, err := scanReceipt(s.db.QueryRowContext(ctx, query, digest))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, dbx.Classify(fmt.Errorf("db error: %w", err))
	}
	return r, true, nil
}
