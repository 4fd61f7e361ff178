package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/dbx"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX with the pgx driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (p *PostgresRepository) Create(ctx context.Context, r *models.Receipt) (*models.Receipt, error) {
	prepare(r)

	query :=
		`INSERT INTO receipts (id, digest, filename, created_at, owner_id, contact_email)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.db.ExecContext(ctx, query, r.ID, r.Digest, r.Filename, r.CreatedAt, ownerArg(r), r.ContactEmail)
	if err != nil {
		return nil, dbx.Classify(fmt.Errorf("db error: %w", err))
	}

	return r, nil
}

func (p *PostgresRepository) ExistsByDigest(ctx context.Context, digest string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM receipts WHERE digest = $1)`

	var exists bool
	if err := p.db.QueryRowContext(ctx, query, digest).Scan(&exists); err != nil {
		return false, dbx.Classify(fmt.Errorf("db error: %w", err))
	}
	return exists, nil
}

func (p *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Receipt, error) {
	query :=
		`SELECT id, digest, filename, created_at, owner_id, contact_email
		 FROM receipts
		 WHERE owner_id = $1
		 ORDER BY created_at DESC, id`

	rows, err := p.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.Classify(fmt.Errorf("db error: %w", err))
	}

	list, err := collect(rows)
	if err != nil {
		return nil, dbx.Classify(fmt.Errorf("db error: %w", err))
	}
	return list, nil
}

func (p *PostgresRepository) FindByDigest(ctx context.Context, digest string) (*models.Receipt, bool, error) {
	query :=
		`SELECT id, digest, filename, created_at, owner_id, contact_email
		 FROM receipts
		 WHERE digest = $1
		 ORDER BY created_at ASC, id
		 LIMIT 1`

	r, err := scanReceipt(p.db.QueryRowContext(ctx, query, digest))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, dbx.Classify(fmt.Errorf("db error: %w", err))
	}
	return r, true, nil
}
