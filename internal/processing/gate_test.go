// SPDX-License-Identifier: MIT

package processing

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dampdf/dampdf/internal/session"
)

// completeJob runs a job through the happy path and returns its final record.
func completeJob(t *testing.T, f *fixture) *session.Record {
	t.Helper()
	rec := f.uploadFixture(t, session.ToolPDFCompress, "report.pdf")
	_, err := f.orch.Start(context.Background(), rec.ID)
	require.NoError(t, err)
	final := waitForTerminal(t, f, rec.ID)
	require.Equal(t, session.StateCompleted, final.State)
	return final
}

func TestDownload_Success(t *testing.T) {
	f := newFixture(t, successRunner(1000, 400), Options{})
	rec := completeJob(t, f)

	reader, info, err := f.orch.Download(context.Background(), rec.ID)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "processed bytes", string(data))
	assert.Equal(t, rec.OutputFilename, info.Filename)
	assert.Equal(t, int64(len(data)), info.Size)
	assert.Equal(t, session.ToolPDFCompress, info.ToolType)

	// Exactly one usage event per served download.
	assert.Equal(t, 1, f.tracker.count())
}

func TestDownload_UnknownSession(t *testing.T) {
	f := newFixture(t, successRunner(10, 5), Options{})

	_, _, err := f.orch.Download(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, f.tracker.count())
}

func TestDownload_NotCompleted(t *testing.T) {
	f := newFixture(t, successRunner(10, 5), Options{})
	rec := f.uploadFixture(t, session.ToolPDFCompress, "pending.pdf")

	_, _, err := f.orch.Download(context.Background(), rec.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDownload_ArtifactDeletedOutOfBand(t *testing.T) {
	f := newFixture(t, successRunner(1000, 400), Options{})
	rec := completeJob(t, f)

	// Disk cleanup removed the artifact while the session is still live.
	require.NoError(t, f.artifacts.Remove(context.Background(), rec.OutputPath))

	_, _, err := f.orch.Download(context.Background(), rec.ID)
	assert.ErrorIs(t, err, session.ErrNotFound, "missing artifact must surface as not found, not crash")
	assert.Equal(t, 0, f.tracker.count())
}

func TestDownload_ExpiredButPresent(t *testing.T) {
	f := newFixture(t, successRunner(1000, 400), Options{})
	rec := completeJob(t, f)

	// The record's own expiry lapses while the store entry is still live
	// (clock skew between the two expiry clocks).
	f.orch.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, _, err := f.orch.Download(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrGone)

	// The artifact is deleted and the store entry best-effort evicted.
	_, sizeErr := f.artifacts.Size(context.Background(), rec.OutputPath)
	assert.Error(t, sizeErr)
	_, getErr := f.orch.Status(context.Background(), rec.ID)
	assert.ErrorIs(t, getErr, session.ErrNotFound)
	assert.Equal(t, 0, f.tracker.count())
}
