// Package users stores LinkProof identities.
package users

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

type Repository interface {
	// Create inserts user. A taken user name yields common.ErrLoginAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for an unknown user name.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

func prepare(user *models.User) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
}
