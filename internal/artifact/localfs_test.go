// SPDX-License-Identifier: MIT

package artifact

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) Store {
	t.Helper()
	s, err := NewLocal(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestLocal_SaveOpenRoundtrip(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	ref, size, err := s.Save(ctx, "uploads/abc/report.pdf", strings.NewReader("hello artifact"))
	require.NoError(t, err)
	assert.Equal(t, int64(14), size)

	r, openSize, err := s.Open(ctx, ref)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, size, openSize)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello artifact", string(data))
}

func TestLocal_SizeAndRemove(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	ref, _, err := s.Save(ctx, "outputs/x/out.pdf", strings.NewReader("1234"))
	require.NoError(t, err)

	size, err := s.Size(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)

	require.NoError(t, s.Remove(ctx, ref))

	_, err = s.Size(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing a missing artifact is not an error.
	assert.NoError(t, s.Remove(ctx, ref))
}

func TestLocal_OpenMissing(t *testing.T) {
	s := newLocal(t)

	_, _, err := s.Open(context.Background(), "/does/not/exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_SaveOverwritesAtomically(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	ref, _, err := s.Save(ctx, "uploads/a/f.bin", strings.NewReader("first"))
	require.NoError(t, err)
	ref2, _, err := s.Save(ctx, "uploads/a/f.bin", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, ref, ref2)

	r, _, err := s.Open(ctx, ref)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocal_ContainsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir, zerolog.Nop())
	require.NoError(t, err)

	ref, _, err := s.Save(context.Background(), "../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, dir), "artifact must stay under the storage root")
}
