// SPDX-License-Identifier: MIT

// Package store provides ephemeral key-value storage with per-entry TTL.
//
// Two interchangeable backends satisfy the same contract: a Redis-backed
// store for deployments with a cache service, and an in-process store used
// as a permanent fallback when Redis is unreachable at startup. Expiry is
// enforced by the backend; an expired entry is indistinguishable from one
// that never existed.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or its TTL has lapsed.
var ErrNotFound = errors.New("store: key not found")

// Store is the ephemeral TTL-bearing key-value contract.
type Store interface {
	// Put stores value under key, overwriting any existing entry and
	// resetting its expiry to now+ttl. A Put that returns an error must be
	// treated as not having happened.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the stored value, or ErrNotFound if the key is absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the entry if present and reports whether anything
	// was removed.
	Delete(ctx context.Context, key string) (bool, error)

	// Backend names the active backend ("redis" or "memory").
	Backend() string

	// Close releases backend resources.
	Close() error
}
