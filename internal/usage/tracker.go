// SPDX-License-Identifier: MIT

// Package usage records per-download accounting events for analytics.
// Tracking is strictly fire-and-forget: a failure to record an event is
// logged and counted but never surfaces to the caller.
package usage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dampdf/dampdf/internal/metrics"
)

// Event is one usage-accounting record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	ToolType  string    `json:"tool_type"`
	FileSize  int64     `json:"file_size"`
}

// Tracker accepts usage events. Implementations must never return an error.
type Tracker interface {
	Track(ctx context.Context, ev Event)
}

const (
	listKey     = "usage_tracking"
	listMaxLen  = 10000
	memoryLimit = 1000
)

// redisTracker pushes events onto a capped Redis list for later batch
// processing by external tooling.
type redisTracker struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis creates a tracker backed by a Redis list.
func NewRedis(client *redis.Client, logger zerolog.Logger) Tracker {
	return &redisTracker{client: client, logger: logger}
}

func (t *redisTracker) Track(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.drop(ev, err)
		return
	}
	if err := t.client.LPush(ctx, listKey, data).Err(); err != nil {
		t.drop(ev, err)
		return
	}
	// Keep the list at a reasonable size.
	if err := t.client.LTrim(ctx, listKey, 0, listMaxLen-1).Err(); err != nil {
		t.logger.Warn().Err(err).Msg("usage list trim failed")
	}
	t.logger.Debug().
		Str("session_id", ev.SessionID).
		Str("tool_type", ev.ToolType).
		Msg("usage tracked")
}

func (t *redisTracker) drop(ev Event, err error) {
	metrics.RecordUsageEventDropped()
	t.logger.Error().
		Err(err).
		Str("session_id", ev.SessionID).
		Msg("failed to track usage")
}

// memoryTracker keeps a bounded in-process ring of recent events, used when
// the session store has fallen back to memory.
type memoryTracker struct {
	mu     sync.Mutex
	events []Event
	logger zerolog.Logger
}

// NewMemory creates an in-process tracker.
func NewMemory(logger zerolog.Logger) Tracker {
	return &memoryTracker{logger: logger}
}

func (t *memoryTracker) Track(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	t.mu.Lock()
	t.events = append(t.events, ev)
	if len(t.events) > memoryLimit {
		t.events = t.events[len(t.events)-memoryLimit:]
	}
	t.mu.Unlock()

	t.logger.Debug().
		Str("session_id", ev.SessionID).
		Str("tool_type", ev.ToolType).
		Msg("usage tracked")
}

// Recent returns a copy of the buffered events, newest last.
func (t *memoryTracker) Recent() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}
