// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dampdf/dampdf/internal/session"
)

// startRequest is the body of POST /process/start.
type startRequest struct {
	SessionID string         `json:"session_id"`
	Options   map[string]any `json:"options,omitempty"`
}

// statusResponse mirrors the session record for status polling.
type statusResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func statusFrom(rec *session.Record) statusResponse {
	return statusResponse{
		SessionID: rec.ID,
		Status:    rec.State.String(),
		Progress:  rec.Progress,
		Message:   rec.Message,
		Error:     rec.ErrorDetail,
	}
}

// handleStart kicks off background processing for an uploaded session.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_REQUEST", "A session_id is required")
		return
	}

	if len(req.Options) > 0 {
		rec, err := s.sessions.Get(r.Context(), req.SessionID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if rec.State == session.StateQueued {
			rec.Options = req.Options
			if err := s.sessions.Update(r.Context(), rec); err != nil {
				writeError(w, r, err)
				return
			}
		}
	}

	rec, err := s.orch.Start(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, statusFrom(rec))
}

// handleStatus returns the current lifecycle state of a session.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	rec, err := s.orch.Status(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusFrom(rec))
}
