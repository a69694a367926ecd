// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dampdf/dampdf/internal/log"
	"github.com/dampdf/dampdf/internal/processing"
	"github.com/dampdf/dampdf/internal/session"
)

// errorBody is the JSON error envelope returned on every failure.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorCode writes a structured error response.
func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeError maps a typed domain error to its HTTP representation.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found or expired")
	case errors.Is(err, processing.ErrGone):
		writeErrorCode(w, http.StatusGone, "SESSION_EXPIRED", "The processed file has expired")
	case errors.Is(err, processing.ErrAlreadyStarted):
		writeErrorCode(w, http.StatusConflict, "ALREADY_STARTED", "Processing has already been started for this session")
	case errors.Is(err, processing.ErrQueueFull):
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVER_BUSY", "Server busy, please try again later")
	default:
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}
