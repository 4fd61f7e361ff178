// Package httptransport exposes LinkProof over HTTP with a chi router.
// Handlers decode requests, resolve the caller once through RequireAuth and
// delegate to the services with an explicit owner id.
package httptransport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/server/metrics"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
	"github.com/dmitrijs2005/linkproof/internal/server/services"
)

const (
	maxJSONBody      = 1 << 20
	multipartMemory  = 8 << 20
	healthCheckLimit = 2 * time.Second
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// UserService is the account side of the API.
type UserService interface {
	Authenticator
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// ReceiptService is the proof side of the API.
type ReceiptService interface {
	Submit(ctx context.Context, ownerID, filename, contactEmail string, content io.Reader) (*services.SubmitResult, error)
	Verify(ctx context.Context, content io.Reader) (bool, error)
	List(ctx context.Context, ownerID string) ([]*models.Receipt, error)
	Lookup(ctx context.Context, raw string) (*models.Receipt, bool, error)
	Export(ctx context.Context, ownerID string) ([]byte, error)
	Link(r *models.Receipt) string
}

// Pinger reports store reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP API.
type Handler struct {
	users         UserService
	receipts      ReceiptService
	store         Pinger
	metrics       *metrics.Metrics
	logger        logging.Logger
	maxUploadSize int64
}

// New creates a Handler.
func New(users UserService, receipts ReceiptService, store Pinger, m *metrics.Metrics, logger logging.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		users:         users,
		receipts:      receipts,
		store:         store,
		metrics:       m,
		logger:        logger.With("module", "http"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes builds the chi router with all endpoints and middleware.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.logger))
	r.Use(Latency(h.metrics))

	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
	r.Post("/refresh", h.handleRefresh)
	r.Post("/verify", h.handleVerify)
	r.Get("/proof/{digest}", h.handleProof)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", h.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.users, h.logger))
		r.Post("/logout", h.handleLogout)
		r.Post("/upload", h.handleUpload)
		r.Get("/user-receipts", h.handleUserReceipts)
		r.Get("/user-receipts/export", h.handleExport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusNotFound, CodeNotFound, "no such endpoint")
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckLimit)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn(ctx, "health check failed", "error", err)
		writeErrorCode(w, http.StatusServiceUnavailable, CodeStoreUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}
