// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dampdf/dampdf/internal/log"
	"github.com/dampdf/dampdf/internal/metrics"
	"github.com/dampdf/dampdf/internal/plan"
	"github.com/dampdf/dampdf/internal/session"
)

// uploadResponse is returned on a successful upload.
type uploadResponse struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	FileType   string    `json:"file_type"`
	UploadTime time.Time `json:"upload_time"`
}

// errTooLarge aborts an upload that exceeds the size cap mid-stream.
var errTooLarge = errors.New("upload exceeds size limit")

// cappedReader errors once more than limit bytes have been read, so an
// oversized upload is rejected without buffering it fully.
type cappedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.limit {
		return n, errTooLarge
	}
	return n, err
}

// handleUpload accepts a multipart upload, validates it against the selected
// tool and stores a queued session record.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	tier := plan.Tier(r.Header.Get("X-User-Plan"))
	limit := s.uploadLimit(tier)

	// Cap the request body; the multipart overhead gets a little headroom.
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErrorCode(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("File exceeds the maximum size of %dMB", limit/(1024*1024)))
			return
		}
		writeErrorCode(w, http.StatusBadRequest, "INVALID_UPLOAD", "A file form field is required")
		return
	}
	defer func() { _ = file.Close() }()

	toolType, err := session.ParseToolType(r.FormValue("tool_type"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_TOOL_TYPE", err.Error())
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !toolType.Accepts(contentType) {
		writeErrorCode(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("File type %q is not supported by %s", contentType, toolType))
		return
	}

	id := s.sessions.NewID()
	ref, size, err := s.artifacts.Save(r.Context(),
		filepath.Join("uploads", id, filepath.Base(header.Filename)),
		&cappedReader{r: file, limit: limit})
	if errors.Is(err, errTooLarge) {
		writeErrorCode(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum size of %dMB", limit/(1024*1024)))
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("upload store failed")
		writeErrorCode(w, http.StatusInternalServerError, "UPLOAD_ERROR", "File upload failed")
		return
	}

	rec := &session.Record{
		ID:               id,
		ToolType:         toolType,
		OriginalFilename: header.Filename,
		ContentType:      contentType,
		Size:             size,
		InputPath:        ref,
	}
	if err := s.sessions.Create(r.Context(), rec); err != nil {
		// The session did not persist; do not leave the orphaned artifact
		// behind.
		if rmErr := s.artifacts.Remove(r.Context(), ref); rmErr != nil {
			logger.Warn().Err(rmErr).Msg("orphaned upload cleanup failed")
		}
		writeError(w, r, err)
		return
	}

	metrics.RecordUpload(toolType.String())
	writeJSON(w, http.StatusOK, uploadResponse{
		SessionID:  id,
		Filename:   header.Filename,
		Size:       size,
		FileType:   contentType,
		UploadTime: rec.CreatedAt,
	})
}

// uploadLimit is the smaller of the service-wide cap and the plan's cap.
func (s *Server) uploadLimit(tier plan.Tier) int64 {
	limit := s.cfg.MaxUploadBytes()
	if planLimit := int64(plan.For(tier).MaxFileSizeMB) * 1024 * 1024; planLimit < limit {
		limit = planLimit
	}
	return limit
}
