// SPDX-License-Identifier: MIT

// Package artifact stores uploaded inputs and transform outputs. The local
// filesystem backend is the default; an S3-compatible backend is available
// for deployments without durable local disk.
package artifact

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a referenced artifact no longer exists.
var ErrNotFound = errors.New("artifact: not found")

// Store persists opaque artifact blobs addressed by a path reference.
type Store interface {
	// Save writes r under the given relative path and returns the stored
	// reference and the number of bytes written.
	Save(ctx context.Context, relPath string, r io.Reader) (string, int64, error)

	// Open returns a reader for the artifact and its size.
	Open(ctx context.Context, ref string) (io.ReadCloser, int64, error)

	// Size returns the artifact size, or ErrNotFound.
	Size(ctx context.Context, ref string) (int64, error)

	// Remove deletes the artifact. Removing a missing artifact is not an
	// error.
	Remove(ctx context.Context, ref string) error
}
