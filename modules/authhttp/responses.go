package authhttp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agentica/userkit/svc/auth"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP statuses. Unmapped errors are
// internal failures and hide their details behind a generic 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidState):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUnverifiedEmail),
		errors.Is(err, auth.ErrRealEmailRequired):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnsupportedProvider),
		errors.Is(err, auth.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
