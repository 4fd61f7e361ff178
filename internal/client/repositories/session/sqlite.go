package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/client/models"
	"github.com/dmitrijs2005/linkproof/internal/dbx"
)

const (
	keyUserName     = "username"
	keyRefreshToken = "refresh_token"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (models.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM session`)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	var s models.Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Session{}, fmt.Errorf("failed to scan session row: %w", err)
		}
		switch key {
		case keyUserName:
			s.UserName = value
		case keyRefreshToken:
			s.RefreshToken = value
		}
	}
	if err := rows.Err(); err != nil {
		return models.Session{}, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s models.Session) error {
	for key, value := range map[string]string{keyUserName: s.UserName, keyRefreshToken: s.RefreshToken} {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO session (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to save session[%s]: %w", key, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
