package httptransport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/server/http/mocks"
	"github.com/dmitrijs2005/linkproof/internal/server/metrics"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
	"github.com/dmitrijs2005/linkproof/internal/server/services"
)

const testDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

type HandlerSuite struct {
	suite.Suite
	users    *mocks.MockUserService
	receipts *mocks.MockReceiptService
	store    *mocks.MockPinger
	router   http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.users = mocks.NewMockUserService(ctrl)
	s.receipts = mocks.NewMockReceiptService(ctrl)
	s.store = mocks.NewMockPinger(ctrl)
	h := New(s.users, s.receipts, s.store, metrics.New(), logging.Nop(), 1<<20)
	s.router = h.Routes()
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func (s *HandlerSuite) expectAuth(userID string) {
	s.users.EXPECT().Authenticate(gomock.Any(), "good-token").Return(userID, nil)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, target string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile(fileField, "orig.txt")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withBearer(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func (s *HandlerSuite) TestSignup() {
	s.users.EXPECT().Register(gomock.Any(), "alice", "password1").Return(&models.User{ID: "u-1"}, nil)

	w := s.do(jsonRequest(http.MethodPost, "/signup", `{"username":"alice","password":"password1"}`))
	s.Equal(http.StatusCreated, w.Code)

	var resp signupResponse
	s.decode(w, &resp)
	s.Equal("u-1", resp.ID)
}

func (s *HandlerSuite) TestSignup_Errors() {
	w := s.do(jsonRequest(http.MethodPost, "/signup", `{not json`))
	s.Equal(http.StatusBadRequest, w.Code)

	s.users.EXPECT().Register(gomock.Any(), "alice", "password1").Return(nil, common.ErrLoginAlreadyExists)
	w = s.do(jsonRequest(http.MethodPost, "/signup", `{"username":"alice","password":"password1"}`))
	s.Equal(http.StatusConflict, w.Code)

	var resp errorResponse
	s.decode(w, &resp)
	s.Equal(CodeConflict, resp.Error)
}

func (s *HandlerSuite) TestLogin() {
	s.users.EXPECT().Login(gomock.Any(), "alice", "password1").
		Return(&services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil)

	w := s.do(jsonRequest(http.MethodPost, "/login", `{"username":"alice","password":"password1"}`))
	s.Equal(http.StatusOK, w.Code)

	var resp tokensResponse
	s.decode(w, &resp)
	s.Equal("a", resp.AccessToken)
	s.Equal("r", resp.RefreshToken)

	s.users.EXPECT().Login(gomock.Any(), "alice", "nope").Return(nil, common.ErrorUnauthorized)
	w = s.do(jsonRequest(http.MethodPost, "/login", `{"username":"alice","password":"nope"}`))
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestRefresh() {
	w := s.do(jsonRequest(http.MethodPost, "/refresh", `{}`))
	s.Equal(http.StatusBadRequest, w.Code)

	s.users.EXPECT().RefreshToken(gomock.Any(), "r1").Return(nil, common.ErrRefreshTokenExpired)
	w = s.do(jsonRequest(http.MethodPost, "/refresh", `{"refresh_token":"r1"}`))
	s.Equal(http.StatusUnauthorized, w.Code)

	s.users.EXPECT().RefreshToken(gomock.Any(), "r2").Return(&services.TokenPair{AccessToken: "a2", RefreshToken: "r3"}, nil)
	w = s.do(jsonRequest(http.MethodPost, "/refresh", `{"refresh_token":"r2"}`))
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestLogout() {
	s.expectAuth("u-1")
	s.users.EXPECT().Logout(gomock.Any(), "good-token", "").Return(nil)

	w := s.do(withBearer(httptest.NewRequest(http.MethodPost, "/logout", nil)))
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/upload", "/logout"} {
		w := s.do(httptest.NewRequest(http.MethodPost, path, nil))
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}
	for _, path := range []string{"/user-receipts", "/user-receipts/export"} {
		w := s.do(httptest.NewRequest(http.MethodGet, path, nil))
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}

	s.users.EXPECT().Authenticate(gomock.Any(), "bad").Return("", common.ErrorUnauthorized)
	req := httptest.NewRequest(http.MethodGet, "/user-receipts", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := s.do(req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestUpload() {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.expectAuth("u-1")
	s.receipts.EXPECT().
		Submit(gomock.Any(), "u-1", "report.pdf", "a@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _ string, r io.Reader) (*services.SubmitResult, error) {
			b, err := io.ReadAll(r)
			s.Require().NoError(err)
			s.Equal("hello", string(b))
			return &services.SubmitResult{
				Receipt: &models.Receipt{ID: "r-1", Digest: testDigest, CreatedAt: created},
				Link:    "https://linkproof.co/proof/" + testDigest,
			}, nil
		})

	req := multipartRequest(s.T(), "/upload", []byte("hello"), map[string]string{"filename": "report.pdf", "email": "a@example.com"})
	w := s.do(withBearer(req))
	s.Equal(http.StatusCreated, w.Code)

	var resp uploadResponse
	s.decode(w, &resp)
	s.Equal(testDigest, resp.Digest)
	s.Equal("https://linkproof.co/proof/"+testDigest, resp.Link)
	s.Equal("2025-03-01T12:00:00Z", resp.CreatedAt)
}

func (s *HandlerSuite) TestUpload_FallsBackToPartFilename() {
	s.expectAuth("u-1")
	s.receipts.EXPECT().Submit(gomock.Any(), "u-1", "orig.txt", "", gomock.Any()).
		Return(&services.SubmitResult{Receipt: &models.Receipt{Digest: testDigest}}, nil)

	w := s.do(withBearer(multipartRequest(s.T(), "/upload", []byte("hello"), nil)))
	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerSuite) TestUpload_Errors() {
	s.expectAuth("u-1")
	w := s.do(withBearer(multipartRequest(s.T(), "/upload", nil, map[string]string{"filename": "x"})))
	s.Equal(http.StatusBadRequest, w.Code)
	var resp errorResponse
	s.decode(w, &resp)
	s.Equal(CodeInvalidInput, resp.Error)

	s.expectAuth("u-1")
	w = s.do(withBearer(multipartRequest(s.T(), "/upload", bytes.Repeat([]byte("x"), 2<<20), nil)))
	s.Equal(http.StatusRequestEntityTooLarge, w.Code)

	s.expectAuth("u-1")
	s.receipts.EXPECT().Submit(gomock.Any(), "u-1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, common.ErrStoreUnavailable)
	w = s.do(withBearer(multipartRequest(s.T(), "/upload", []byte("hello"), nil)))
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.decode(w, &resp)
	s.Equal(CodeStoreUnavailable, resp.Error)
}

func (s *HandlerSuite) TestVerify() {
	s.receipts.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(true, nil)

	w := s.do(multipartRequest(s.T(), "/verify", []byte("hello"), nil))
	s.Equal(http.StatusOK, w.Code)

	var resp verifyResponse
	s.decode(w, &resp)
	s.True(resp.Exists)

	s.receipts.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false, common.ErrInputUnavailable)
	w = s.do(multipartRequest(s.T(), "/verify", []byte("hello"), nil))
	s.Equal(http.StatusBadRequest, w.Code)
	var errResp errorResponse
	s.decode(w, &errResp)
	s.Equal(CodeInputUnavailable, errResp.Error)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

// cutMultipartRequest builds a valid multipart upload, keeps only its first
// keep bytes and then continues with tail.
func cutMultipartRequest(t *testing.T, target string, keep int, tail io.Reader) *http.Request {
	t.Helper()
	full := multipartRequest(t, target, bytes.Repeat([]byte("0123456789abcdef"), 256), nil)
	raw, err := io.ReadAll(full.Body)
	require.NoError(t, err)
	require.Less(t, keep, len(raw))

	req := httptest.NewRequest(http.MethodPost, target, io.MultiReader(bytes.NewReader(raw[:keep]), tail))
	req.Header.Set("Content-Type", full.Header.Get("Content-Type"))
	return req
}

func (s *HandlerSuite) TestVerify_BrokenUpload() {
	tests := []struct {
		name string
		tail io.Reader
	}{
		{"body ends early", strings.NewReader("")},
		{"connection fails", failingReader{io.ErrUnexpectedEOF}},
		{"read error", failingReader{errors.New("connection reset by peer")}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(cutMultipartRequest(s.T(), "/verify", 2000, tt.tail))
			s.Equal(http.StatusBadRequest, w.Code)

			var resp errorResponse
			s.decode(w, &resp)
			s.Equal(CodeInputUnavailable, resp.Error, resp.Message)
		})
	}
}

func (s *HandlerSuite) TestVerify_NotMultipart() {
	w := s.do(jsonRequest(http.MethodPost, "/verify", `{"content":"hello"}`))
	s.Equal(http.StatusBadRequest, w.Code)

	var resp errorResponse
	s.decode(w, &resp)
	s.Equal(CodeInvalidInput, resp.Error)
}

func (s *HandlerSuite) TestUserReceipts() {
	owner := "u-1"
	list := []*models.Receipt{
		{ID: "r-2", Digest: testDigest, Filename: "", OwnerID: &owner, CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "r-1", Digest: testDigest, Filename: "a.txt", OwnerID: &owner, CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	s.expectAuth(owner)
	s.receipts.EXPECT().List(gomock.Any(), owner).Return(list, nil)
	s.receipts.EXPECT().Link(gomock.Any()).Return("https://linkproof.co/proof/" + testDigest).Times(2)

	w := s.do(withBearer(httptest.NewRequest(http.MethodGet, "/user-receipts", nil)))
	s.Equal(http.StatusOK, w.Code)

	var items []receiptItem
	s.decode(w, &items)
	s.Require().Len(items, 2)
	s.Equal(models.UntitledFile, items[0].Filename)
	s.Equal("a.txt", items[1].Filename)
	s.Equal(items[0].Digest, items[0].Hash)
	s.Equal("2025-03-02T00:00:00Z", items[0].Timestamp)
}

func (s *HandlerSuite) TestUserReceipts_EmptyIsArray() {
	s.expectAuth("u-1")
	s.receipts.EXPECT().List(gomock.Any(), "u-1").Return([]*models.Receipt{}, nil)

	w := s.do(withBearer(httptest.NewRequest(http.MethodGet, "/user-receipts", nil)))
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *HandlerSuite) TestExport() {
	s.expectAuth("u-1")
	s.receipts.EXPECT().Export(gomock.Any(), "u-1").Return([]byte("PK..."), nil)

	w := s.do(withBearer(httptest.NewRequest(http.MethodGet, "/user-receipts/export", nil)))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "receipts.xlsx")
	s.Equal("PK...", w.Body.String())
}

func (s *HandlerSuite) TestProof() {
	rc := &models.Receipt{ID: "r-1", Digest: testDigest, Filename: "secret.pdf", ContactEmail: "a@example.com",
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	s.receipts.EXPECT().Lookup(gomock.Any(), testDigest).Return(rc, true, nil)
	s.receipts.EXPECT().Link(rc).Return("https://linkproof.co/proof/" + testDigest)

	w := s.do(httptest.NewRequest(http.MethodGet, "/proof/"+testDigest, nil))
	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "secret.pdf")
	s.NotContains(w.Body.String(), "a@example.com")

	var resp proofResponse
	s.decode(w, &resp)
	s.Equal(testDigest, resp.Digest)
	s.Equal("2025-03-01T00:00:00Z", resp.CreatedAt)
}

func (s *HandlerSuite) TestProof_NotFoundAndInvalid() {
	s.receipts.EXPECT().Lookup(gomock.Any(), testDigest).Return(nil, false, nil)
	w := s.do(httptest.NewRequest(http.MethodGet, "/proof/"+testDigest, nil))
	s.Equal(http.StatusNotFound, w.Code)
	var resp errorResponse
	s.decode(w, &resp)
	s.Equal(CodeNotFound, resp.Error)

	s.receipts.EXPECT().Lookup(gomock.Any(), "xyz").Return(nil, false, common.ErrInvalidDigest)
	w = s.do(httptest.NewRequest(http.MethodGet, "/proof/xyz", nil))
	s.Equal(http.StatusBadRequest, w.Code)
	s.decode(w, &resp)
	s.Equal(CodeInvalidInput, resp.Error)
}

func (s *HandlerSuite) TestHealthz() {
	s.store.EXPECT().Ping(gomock.Any()).Return(nil)
	w := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, w.Code)

	s.store.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	w = s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	s.store.EXPECT().Ping(gomock.Any()).Return(nil)
	s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `route="/healthz"`)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{common.ErrInputUnavailable, http.StatusBadRequest, CodeInputUnavailable},
		{common.ErrorValidation, http.StatusBadRequest, CodeInvalidInput},
		{common.ErrInvalidDigest, http.StatusBadRequest, CodeInvalidInput},
		{common.ErrorUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized, CodeUnauthorized},
		{common.ErrLoginAlreadyExists, http.StatusConflict, CodeConflict},
		{common.ErrorNotFound, http.StatusNotFound, CodeNotFound},
		{common.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestWriteError_InternalHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password authentication")
}
