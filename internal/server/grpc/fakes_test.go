package grpc

import (
	"context"
	"io"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
	"github.com/dmitrijs2005/linkproof/internal/server/services"
)

// ---- fakes ----

type fakeUser struct {
	regResp *models.User
	regErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	logoutErr     error
	loggedOut     []string
	validTokens   map[string]string
	authCallCount int
}

func (f *fakeUser) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.regResp, f.regErr
}

func (f *fakeUser) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeUser) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeUser) Logout(ctx context.Context, accessToken, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, accessToken)
	return f.logoutErr
}

func (f *fakeUser) Authenticate(ctx context.Context, accessToken string) (string, error) {
	f.authCallCount++
	if id, ok := f.validTokens[accessToken]; ok {
		return id, nil
	}
	return "", common.ErrorUnauthorized
}

type fakeReceipts struct {
	submitted struct {
		ownerID, filename, email string
		content                  []byte
	}
	submitResp *services.SubmitResult
	submitErr  error

	verifyResp bool
	verifyErr  error

	listResp []*models.Receipt
	listErr  error
	listedBy string

	lookupResp  *models.Receipt
	lookupFound bool
	lookupErr   error
}

func (f *fakeReceipts) Submit(ctx context.Context, ownerID, filename, contactEmail string, content io.Reader) (*services.SubmitResult, error) {
	b, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.submitted.ownerID, f.submitted.filename, f.submitted.email, f.submitted.content = ownerID, filename, contactEmail, b
	return f.submitResp, f.submitErr
}

func (f *fakeReceipts) Verify(ctx context.Context, content io.Reader) (bool, error) {
	_, _ = io.Copy(io.Discard, content)
	return f.verifyResp, f.verifyErr
}

func (f *fakeReceipts) List(ctx context.Context, ownerID string) ([]*models.Receipt, error) {
	f.listedBy = ownerID
	return f.listResp, f.listErr
}

func (f *fakeReceipts) Lookup(ctx context.Context, raw string) (*models.Receipt, bool, error) {
	return f.lookupResp, f.lookupFound, f.lookupErr
}

func (f *fakeReceipts) Link(r *models.Receipt) string {
	return "https://linkproof.co/proof/" + r.Digest
}
