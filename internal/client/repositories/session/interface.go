// Package session persists the CLI login between runs.
package session

import (
	"context"

	"github.com/dmitrijs2005/linkproof/internal/client/models"
)

type Repository interface {
	// Load returns the stored session, or an empty one when nobody is logged in.
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}
