package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/client/models"
	"github.com/dmitrijs2005/linkproof/internal/dbx"
)

const columns = `receipt_id, digest, filename, source, link, created_at`

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, e *models.HistoryEntry) error {
	query := `INSERT INTO history (` + columns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(receipt_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Digest, e.Filename, e.Source, e.Link, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.HistoryEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM history ORDER BY created_at DESC, receipt_id`)
}

func (r *SQLiteRepository) FindByDigest(ctx context.Context, digest string) ([]models.HistoryEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM history WHERE digest = ? ORDER BY created_at ASC, receipt_id`, digest)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Digest, &e.Filename, &e.Source, &e.Link, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
