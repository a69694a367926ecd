// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dampdf/dampdf/internal/log"
)

// handleDownload streams a completed session's output artifact.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	reader, info, err := s.orch.Download(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer func() { _ = reader.Close() }()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Filename))

	if _, err := io.Copy(w, reader); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).Str("session_id", id).Msg("download stream interrupted")
	}
}
