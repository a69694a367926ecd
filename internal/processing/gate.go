// SPDX-License-Identifier: MIT

package processing

import (
	"context"
	"errors"
	"io"

	"github.com/dampdf/dampdf/internal/artifact"
	"github.com/dampdf/dampdf/internal/metrics"
	"github.com/dampdf/dampdf/internal/session"
	"github.com/dampdf/dampdf/internal/usage"
)

// DownloadInfo describes a streamable artifact handed to the HTTP boundary.
type DownloadInfo struct {
	Filename string
	Size     int64
	ToolType session.ToolType
}

// Download validates expiry and artifact existence before serving a
// completed job's output.
//
// Store-level freshness is checked first: an evicted or unknown session is
// NotFound. A session whose recorded expiry has lapsed while the store entry
// is still live (clock skew between the two expiry clocks) is Gone; the
// artifact is deleted and the store entry best-effort evicted. A completed
// session whose artifact disappeared out-of-band is NotFound, never a crash.
//
// Every served download records one usage event; tracking failures never
// fail the download.
func (o *Orchestrator) Download(ctx context.Context, id string) (io.ReadCloser, DownloadInfo, error) {
	rec, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, DownloadInfo{}, err
	}
	if rec.State != session.StateCompleted || rec.OutputPath == "" {
		return nil, DownloadInfo{}, session.ErrNotFound
	}

	if rec.Expired(o.now()) {
		metrics.RecordExpiredDownload()
		o.logger.Info().
			Str("session_id", id).
			Time("expires_at", rec.ExpiresAt).
			Msg("download rejected, artifact expired")
		if err := o.artifacts.Remove(ctx, rec.OutputPath); err != nil {
			o.logger.Warn().Err(err).Str("session_id", id).Msg("expired artifact cleanup failed")
		}
		if _, err := o.sessions.Delete(ctx, id); err != nil {
			o.logger.Warn().Err(err).Str("session_id", id).Msg("expired session eviction failed")
		}
		return nil, DownloadInfo{}, ErrGone
	}

	r, size, err := o.artifacts.Open(ctx, rec.OutputPath)
	if errors.Is(err, artifact.ErrNotFound) {
		o.logger.Warn().Str("session_id", id).Msg("output artifact missing")
		return nil, DownloadInfo{}, session.ErrNotFound
	}
	if err != nil {
		return nil, DownloadInfo{}, err
	}

	o.tracker.Track(ctx, usage.Event{
		SessionID: id,
		ToolType:  rec.ToolType.String(),
		FileSize:  size,
	})
	metrics.RecordDownload(rec.ToolType.String())

	filename := rec.OutputFilename
	if filename == "" {
		filename = "processed-file"
	}
	return r, DownloadInfo{
		Filename: filename,
		Size:     size,
		ToolType: rec.ToolType,
	}, nil
}
