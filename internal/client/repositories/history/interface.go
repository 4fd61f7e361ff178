package history

import (
	"context"

	"github.com/dmitrijs2005/linkproof/internal/client/models"
)

type Repository interface {
	// Add records an entry. Adding the same receipt twice is a no-op.
	Add(ctx context.Context, e *models.HistoryEntry) error

	// List returns all entries, newest first.
	List(ctx context.Context) ([]models.HistoryEntry, error)

	// FindByDigest returns the entries whose content hashed to digest, oldest first.
	FindByDigest(ctx context.Context, digest string) ([]models.HistoryEntry, error)

	Clear(ctx context.Context) error
}
