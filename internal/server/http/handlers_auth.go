package httptransport

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/server/services"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type signupResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type tokensResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func newTokensResponse(p *services.TokenPair) tokensResponse {
	return tokensResponse{Message: "ok", AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

// decodeJSON reads a bounded JSON body into v. An empty body is allowed
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logFailure(r, "signup failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{Message: "user created", ID: u.ID})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logFailure(r, "login failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokensResponse(pair))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	if req.RefreshToken == "" {
		writeErrorCode(w, http.StatusBadRequest, CodeInvalidInput, "refresh_token is required")
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logFailure(r, "refresh failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokensResponse(pair))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Logout(r.Context(), getAccessToken(r.Context()), req.RefreshToken); err != nil {
		h.logFailure(r, "logout failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// logFailure logs server-side failures at error level and client mistakes
// at debug level.
func (h *Handler) logFailure(r *http.Request, msg string, err error) {
	status, _ := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), msg, "error", err, "path", r.URL.Path)
		return
	}
	h.logger.Debug(r.Context(), msg, "error", err, "path", r.URL.Path)
}
