// SPDX-License-Identifier: MIT

// Package session tracks one user-initiated transform job from upload to
// terminal state. Records live in an ephemeral TTL store under the key
// scheme "session:<id>" as stable-field JSON documents, so live job counts
// stay inspectable with ordinary Redis tooling.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dampdf/dampdf/internal/metrics"
	"github.com/dampdf/dampdf/internal/store"
)

// ErrNotFound is returned when a session id is unknown to the store or its
// entry has been evicted. Evicted and never-existed are indistinguishable.
var ErrNotFound = errors.New("session: not found or expired")

// ErrInvalidTransition is returned when a state change would violate the
// job lifecycle.
var ErrInvalidTransition = errors.New("session: invalid state transition")

const keyPrefix = "session:"

// TTLs groups the expiry classes applied on every write. Sessions awaiting
// or running processing use the short Pending TTL; once an output artifact
// exists the longer Processed TTL applies.
type TTLs struct {
	Pending   time.Duration
	Processed time.Duration
}

// Manager persists session records and enforces legal state transitions.
// All mutation is whole-record replace; the store is the single source of
// truth for a job's state.
type Manager struct {
	store  store.Store
	ttls   TTLs
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a session manager on top of the given store.
func NewManager(s store.Store, ttls TTLs, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  s,
		ttls:   ttls,
		logger: logger,
		now:    time.Now,
	}
}

// NewID generates an opaque session identifier.
func (m *Manager) NewID() string {
	return uuid.New().String()
}

// Create stores a fresh queued record for an uploaded file.
func (m *Manager) Create(ctx context.Context, rec *Record) error {
	rec.State = StateQueued
	rec.Progress = 0
	rec.CreatedAt = m.now()
	if err := m.put(ctx, rec); err != nil {
		return err
	}
	m.logger.Info().
		Str("session_id", rec.ID).
		Str("tool_type", rec.ToolType.String()).
		Int64("size", rec.Size).
		Msg("session created")
	return nil
}

// Get loads a record by id. Returns ErrNotFound when the key is absent or
// its TTL has lapsed.
func (m *Manager) Get(ctx context.Context, id string) (*Record, error) {
	data, err := m.store.Get(ctx, keyPrefix+id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session %s: corrupt record: %w", id, err)
	}
	return &rec, nil
}

// Delete evicts a session from the store, reporting whether it was present.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	return m.store.Delete(ctx, keyPrefix+id)
}

// Transition moves a record to the target state after checking legality,
// applies mutate to fill in state-specific fields, and persists the result.
// An illegal transition returns ErrInvalidTransition and writes nothing.
func (m *Manager) Transition(ctx context.Context, rec *Record, target State, mutate func(*Record)) error {
	if !rec.State.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s (session %s)", ErrInvalidTransition, rec.State, target, rec.ID)
	}
	old := rec.State
	rec.State = target
	if mutate != nil {
		mutate(rec)
	}
	if err := rec.Validate(); err != nil {
		rec.State = old
		return err
	}
	if err := m.put(ctx, rec); err != nil {
		// The write did not stick, so the transition did not happen.
		rec.State = old
		return err
	}
	m.logger.Info().
		Str("session_id", rec.ID).
		Str("old_state", old.String()).
		Str("new_state", target.String()).
		Int("progress", rec.Progress).
		Msg("session state changed")
	return nil
}

// Update persists a record without a state change (progress/message bumps).
func (m *Manager) Update(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return m.put(ctx, rec)
}

// put writes the record with the TTL class matching its state and keeps the
// advisory ExpiresAt consistent with the store's authoritative TTL.
func (m *Manager) put(ctx context.Context, rec *Record) error {
	ttl := m.ttls.Pending
	if rec.State == StateCompleted {
		ttl = m.ttls.Processed
	}
	rec.ExpiresAt = m.now().Add(ttl)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session %s: marshal: %w", rec.ID, err)
	}
	if err := m.store.Put(ctx, keyPrefix+rec.ID, data, ttl); err != nil {
		metrics.RecordStoreWriteError()
		return err
	}
	return nil
}
