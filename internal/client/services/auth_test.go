package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkproof/internal/client/client"
	"github.com/dmitrijs2005/linkproof/internal/client/models"
)

func TestRegister_PassesCredentials(t *testing.T) {
	repos := setupRepos(t)
	fc := &fakeClient{RegisterErr: client.ErrAlreadyExists}
	svc := NewAuthService(fc, repos.Session, repos.History)

	err := svc.Register(context.Background(), "alice", []byte("password1"))
	require.ErrorIs(t, err, client.ErrAlreadyExists)
	require.Equal(t, "alice", fc.LastRegisterUser)
	require.Equal(t, "password1", fc.LastRegisterPass)
}

func TestLogin_PersistsSession(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	fc := &fakeClient{NextRefresh: "R1"}
	svc := NewAuthService(fc, repos.Session, repos.History)

	require.NoError(t, svc.Login(ctx, "alice", []byte("password1")))

	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, models.Session{UserName: "alice", RefreshToken: "R1"}, s)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	fc := &fakeClient{LoginErr: client.ErrUnauthorized}
	svc := NewAuthService(fc, repos.Session, repos.History)

	err := svc.Login(ctx, "alice", []byte("nope"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.ErrorContains(t, err, "login error")

	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.True(t, s.Empty())
}

func TestResume_NoSession(t *testing.T) {
	repos := setupRepos(t)
	svc := NewAuthService(&fakeClient{}, repos.Session, repos.History)

	_, err := svc.Resume(context.Background())
	require.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
}

func TestResume_RotatesStoredToken(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Session.Save(ctx, models.Session{UserName: "alice", RefreshToken: "R1"}))

	fc := &fakeClient{NextRefresh: "R2"}
	svc := NewAuthService(fc, repos.Session, repos.History)

	user, err := svc.Resume(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", user)
	require.Equal(t, "R1", fc.LastResumeToken)

	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "R2", s.RefreshToken)
}

func TestResume_RejectedSessionIsWiped(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Session.Save(ctx, models.Session{UserName: "alice", RefreshToken: "stale"}))

	svc := NewAuthService(&fakeClient{ResumeErr: client.ErrUnauthorized}, repos.Session, repos.History)

	_, err := svc.Resume(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.True(t, s.Empty())
}

func TestResume_ServerDownKeepsSession(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Session.Save(ctx, models.Session{UserName: "alice", RefreshToken: "R1"}))

	svc := NewAuthService(&fakeClient{ResumeErr: client.ErrUnavailable}, repos.Session, repos.History)

	_, err := svc.Resume(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)

	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "R1", s.RefreshToken)
}

func TestLogout_WipesLocalDataEvenWhenServerFails(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Session.Save(ctx, models.Session{UserName: "alice", RefreshToken: "R1"}))
	require.NoError(t, repos.History.Add(ctx, &models.HistoryEntry{Receipt: models.Receipt{ID: "1", Digest: "aa", CreatedAt: time.Now()}}))

	fc := &fakeClient{LogoutErr: client.ErrUnavailable}
	svc := NewAuthService(fc, repos.Session, repos.History)

	require.ErrorIs(t, svc.Logout(ctx), client.ErrUnavailable)
	require.Equal(t, 1, fc.LogoutCalls)

	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.True(t, s.Empty())

	h, err := repos.History.List(ctx)
	require.NoError(t, err)
	require.Empty(t, h)
}

func TestSaveSession_OnlyWhenRotated(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	fc := &fakeClient{}
	svc := NewAuthService(fc, repos.Session, repos.History)

	// nothing to save while logged out
	fc.refresh = "R9"
	require.NoError(t, svc.SaveSession(ctx))
	s, err := repos.Session.Load(ctx)
	require.NoError(t, err)
	require.True(t, s.Empty())

	require.NoError(t, repos.Session.Save(ctx, models.Session{UserName: "alice", RefreshToken: "R1"}))
	require.NoError(t, svc.SaveSession(ctx))
	s, err = repos.Session.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "R9", s.RefreshToken)
}

func TestPingAndClose_Proxy(t *testing.T) {
	repos := setupRepos(t)
	boom := errors.New("boom")
	svc := NewAuthService(&fakeClient{PingErr: client.ErrUnavailable, CloseErr: boom}, repos.Session, repos.History)

	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	require.ErrorIs(t, svc.Close(context.Background()), boom)
}
