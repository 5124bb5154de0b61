// Package handlers exposes the REST surface: JSON encoding, error
// mapping, and the route handlers for auth, groups, expenses, and
// settlement.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgetsplitter/internal/auth"
	"budgetsplitter/internal/middleware"
	"budgetsplitter/internal/service"
	"budgetsplitter/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError maps domain errors onto HTTP status codes. Exported so the
// identity middleware, wired up outside this package, renders failures
// the same way handlers do.
func WriteError(w http.ResponseWriter, err error) {
	writeError(w, err)
}

// writeError maps domain errors onto HTTP status codes. Unrecognized
// errors become an opaque 500 so internal details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error()})
	case errors.Is(err, auth.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, middleware.ErrMissingBearer):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden), errors.Is(err, auth.ErrAccountInactive):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}
