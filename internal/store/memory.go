// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// entry is a stored value with its absolute expiry instant.
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// memoryStore is the in-process fallback backend. Every Put performs an
// opportunistic sweep of stale entries to bound memory; a Get that hits an
// expired entry deletes it before reporting ErrNotFound.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	logger  zerolog.Logger
	now     func() time.Time // injectable clock for tests
}

// NewMemory creates the in-process backend.
func NewMemory(logger zerolog.Logger) Store {
	return &memoryStore{
		entries: make(map[string]entry),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *memoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[key] = entry{
		value:     append([]byte(nil), value...),
		expiresAt: now.Add(ttl),
	}

	// Lazy eviction keeps the map bounded without a janitor goroutine.
	evicted := 0
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			evicted++
		}
	}

	s.logger.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Int("evicted", evicted).
		Msg("memory store put")
	return nil
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok, nil
}

func (s *memoryStore) Backend() string { return "memory" }

func (s *memoryStore) Close() error { return nil }
