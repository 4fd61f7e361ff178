// Package services contains application services for the LinkProof CLI.
// This file defines the account side: register, login, resuming a stored
// session, logout and a liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/client/client"
	"github.com/dmitrijs2005/linkproof/internal/client/models"
	"github.com/dmitrijs2005/linkproof/internal/client/repositories/history"
	"github.com/dmitrijs2005/linkproof/internal/client/repositories/session"
)

// AuthService defines account operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Resume: restore the persisted session; returns the user name.
//   - Logout: revoke the session and wipe local data, even when the server
//     cannot be reached.
//   - SaveSession: persist a refresh token rotated during another call.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Resume(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	SaveSession(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions session.Repository
	history  history.Repository
}

// NewAuthService constructs an AuthService bound to the given API client and
// local repositories.
func NewAuthService(c client.Client, sessions session.Repository, h history.Repository) AuthService {
	return &authService{client: c, sessions: sessions, history: h}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	return a.client.Register(ctx, username, string(password))
}

func (a *authService) Login(ctx context.Context, userName string, password []byte) error {
	if err := a.client.Login(ctx, userName, string(password)); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	s := models.Session{UserName: userName, RefreshToken: a.client.RefreshToken()}
	if err := a.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// Resume exchanges the stored refresh token for a fresh token pair. A session
// the server no longer accepts is wiped. With nothing stored it returns
// client.ErrLocalDataNotAvailable.
func (a *authService) Resume(ctx context.Context) (string, error) {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", client.ErrLocalDataNotAvailable, err)
	}
	if s.Empty() {
		return "", client.ErrLocalDataNotAvailable
	}

	if err := a.client.Resume(ctx, s.RefreshToken); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.sessions.Clear(ctx)
		}
		return "", err
	}

	s.RefreshToken = a.client.RefreshToken()
	if err := a.sessions.Save(ctx, s); err != nil {
		return "", fmt.Errorf("session saving error: %w", err)
	}
	return s.UserName, nil
}

func (a *authService) Logout(ctx context.Context) error {
	remoteErr := a.client.Logout(ctx)

	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	if err := a.history.Clear(ctx); err != nil {
		return err
	}
	return remoteErr
}

func (a *authService) SaveSession(ctx context.Context) error {
	return saveRotatedToken(ctx, a.client, a.sessions)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// saveRotatedToken stores the client's current refresh token when it differs
// from the persisted one.
func saveRotatedToken(ctx context.Context, c client.Client, sessions session.Repository) error {
	current := c.RefreshToken()
	if current == "" {
		return nil
	}
	s, err := sessions.Load(ctx)
	if err != nil {
		return err
	}
	if s.Empty() || s.RefreshToken == current {
		return nil
	}
	s.RefreshToken = current
	return sessions.Save(ctx, s)
}
