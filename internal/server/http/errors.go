package httptransport

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/linkproof/internal/common"
)

// Error codes of the JSON error envelope.
const (
	CodeInputUnavailable = "input_unavailable"
	CodeInvalidInput     = "invalid_input"
	CodeUnauthorized     = "unauthorized"
	CodeConflict         = "conflict"
	CodeNotFound         = "not_found"
	CodeTooLarge         = "too_large"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternal         = "internal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// classify maps a service error to a status code and envelope code.
func classify(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, CodeTooLarge
	case errors.Is(err, common.ErrInputUnavailable):
		return http.StatusBadRequest, CodeInputUnavailable
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrInvalidDigest):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, common.ErrLoginAlreadyExists):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, CodeStoreUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeError writes the JSON error envelope for err. Internal failures carry
// a generic message only.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := err.Error()
	switch code {
	case CodeInternal:
		msg = "internal server error"
	case CodeStoreUnavailable:
		msg = "service temporarily unavailable"
	case CodeUnauthorized:
		msg = "authentication required"
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
