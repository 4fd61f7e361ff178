package httptransport

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/server/metrics"
)

// Authenticator resolves the caller of a request from its bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

type contextKeyUserID struct{}
type contextKeyAccessToken struct{}

// GetUserID returns the authenticated user id stored by RequireAuth.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(contextKeyUserID{}).(string)
	return userID
}

func getAccessToken(ctx context.Context) string {
	token, _ := ctx.Value(contextKeyAccessToken{}).(string)
	return token
}

// WithUserID returns ctx carrying userID as the authenticated caller.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID{}, userID)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the caller's user id in the request context.
func RequireAuth(auth Authenticator, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeErrorCode(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
				return
			}

			userID, err := auth.Authenticate(ctx, token)
			if err != nil {
				logger.Warn(ctx, "unauthorized access", "error", err, "request_id", middleware.GetReqID(ctx))
				writeError(w, err)
				return
			}

			ctx = WithUserID(ctx, userID)
			ctx = context.WithValue(ctx, contextKeyAccessToken{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Latency records request duration by route pattern, so path parameters
// such as digests do not explode label cardinality.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, strconv.Itoa(status), start)
		})
	}
}
