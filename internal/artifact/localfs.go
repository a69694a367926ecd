// SPDX-License-Identifier: MIT

package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// localStore keeps artifacts under a root directory. Writes go through a
// temp file and an atomic rename so a crashed upload never leaves a
// half-written artifact behind.
type localStore struct {
	root   string
	logger zerolog.Logger
}

// NewLocal creates a filesystem-backed artifact store rooted at dir.
func NewLocal(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact root %s: %w", dir, err)
	}
	return &localStore{root: dir, logger: logger}, nil
}

// resolve joins relPath under the root, rejecting traversal outside it.
func (s *localStore) resolve(relPath string) (string, error) {
	clean := filepath.Clean("/" + relPath)
	abs := filepath.Join(s.root, clean)
	if !strings.HasPrefix(abs, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("artifact path %q escapes storage root", relPath)
	}
	return abs, nil
}

func (s *localStore) Save(ctx context.Context, relPath string, r io.Reader) (string, int64, error) {
	abs, err := s.resolve(relPath)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", 0, err
	}

	t, err := renameio.TempFile("", abs)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = t.Cleanup() }()

	n, err := io.Copy(t, r)
	if err != nil {
		return "", 0, fmt.Errorf("artifact write %s: %w", relPath, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return "", 0, fmt.Errorf("artifact commit %s: %w", relPath, err)
	}

	s.logger.Debug().
		Str("path", relPath).
		Int64("size", n).
		Msg("artifact stored")
	return abs, n, nil
}

func (s *localStore) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	f, err := os.Open(ref)
	if os.IsNotExist(err) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (s *localStore) Size(ctx context.Context, ref string) (int64, error) {
	info, err := os.Stat(ref)
	if os.IsNotExist(err) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *localStore) Remove(ctx context.Context, ref string) error {
	err := os.Remove(ref)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
