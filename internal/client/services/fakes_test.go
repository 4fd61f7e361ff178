package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkproof/internal/client/client"
	"github.com/dmitrijs2005/linkproof/internal/client/models"
)

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	refresh string

	CloseErr    error
	RegisterErr error
	LoginErr    error
	ResumeErr   error
	LogoutErr   error
	PingErr     error

	// refresh token handed out by Login/Resume, and rotated to by other calls
	NextRefresh string

	SubmitRet *models.Receipt
	SubmitErr error
	VerifyRet bool
	VerifyErr error
	ListRet   []models.Receipt
	ListErr   error
	LookupRet *models.Proof
	LookupErr error

	LastRegisterUser string
	LastRegisterPass string
	LastLoginUser    string
	LastLoginPass    string
	LastResumeToken  string
	LastSubmitName   string
	LastSubmitEmail  string
	LastContent      []byte
	LastLookup       string
	LogoutCalls      int
}

func (f *fakeClient) rotate() {
	if f.NextRefresh != "" {
		f.refresh = f.NextRefresh
	}
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Register(ctx context.Context, username, password string) error {
	f.LastRegisterUser, f.LastRegisterPass = username, password
	return f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) error {
	f.LastLoginUser, f.LastLoginPass = username, password
	if f.LoginErr != nil {
		return f.LoginErr
	}
	f.rotate()
	return nil
}

func (f *fakeClient) Resume(ctx context.Context, refreshToken string) error {
	f.LastResumeToken = refreshToken
	if f.ResumeErr != nil {
		return f.ResumeErr
	}
	f.rotate()
	return nil
}

func (f *fakeClient) RefreshToken() string { return f.refresh }

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	f.refresh = ""
	return f.LogoutErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Submit(ctx context.Context, filename, email string, content []byte) (*models.Receipt, error) {
	f.LastSubmitName, f.LastSubmitEmail, f.LastContent = filename, email, content
	f.rotate()
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeClient) Verify(ctx context.Context, content []byte) (bool, error) {
	f.LastContent = content
	f.rotate()
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) List(ctx context.Context) ([]models.Receipt, error) {
	f.rotate()
	return f.ListRet, f.ListErr
}

func (f *fakeClient) Lookup(ctx context.Context, digest string) (*models.Proof, error) {
	f.LastLookup = digest
	return f.LookupRet, f.LookupErr
}
