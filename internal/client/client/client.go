package client

import (
	"context"

	"github.com/dmitrijs2005/linkproof/internal/client/models"
)

type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	// Resume restores a session from a stored refresh token.
	Resume(ctx context.Context, refreshToken string) error
	// RefreshToken returns the current refresh token, which rotates on every refresh.
	RefreshToken() string
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Submit(ctx context.Context, filename, email string, content []byte) (*models.Receipt, error)
	Verify(ctx context.Context, content []byte) (bool, error)
	List(ctx context.Context) ([]models.Receipt, error)
	Lookup(ctx context.Context, digest string) (*models.Proof, error)
}
