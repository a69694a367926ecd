// SPDX-License-Identifier: MIT

package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker_RecordsEvents(t *testing.T) {
	tr := NewMemory(zerolog.Nop()).(*memoryTracker)

	tr.Track(context.Background(), Event{SessionID: "s1", ToolType: "pdf-compress", FileSize: 42})

	events := tr.Recent()
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, int64(42), events[0].FileSize)
	assert.False(t, events[0].Timestamp.IsZero(), "missing timestamp must be filled in")
}

func TestMemoryTracker_BoundsBuffer(t *testing.T) {
	tr := NewMemory(zerolog.Nop()).(*memoryTracker)
	ctx := context.Background()

	for i := 0; i < memoryLimit+50; i++ {
		tr.Track(ctx, Event{SessionID: fmt.Sprintf("s%d", i)})
	}

	events := tr.Recent()
	require.Len(t, events, memoryLimit)
	// Oldest entries are dropped first.
	assert.Equal(t, "s50", events[0].SessionID)
	assert.Equal(t, fmt.Sprintf("s%d", memoryLimit+49), events[len(events)-1].SessionID)
}

func TestRedisTracker_PushesToList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tr := NewRedis(client, zerolog.Nop())
	tr.Track(context.Background(), Event{
		Timestamp: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		SessionID: "s1",
		ToolType:  "image-compress",
		FileSize:  1024,
	})

	items, err := mr.List(listKey)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(items[0]), &ev))
	assert.Equal(t, "s1", ev.SessionID)
	assert.Equal(t, "image-compress", ev.ToolType)
	assert.Equal(t, int64(1024), ev.FileSize)
}

func TestRedisTracker_NewestFirst(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tr := NewRedis(client, zerolog.Nop())
	ctx := context.Background()
	tr.Track(ctx, Event{SessionID: "first"})
	tr.Track(ctx, Event{SessionID: "second"})

	items, err := mr.List(listKey)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(items[0]), &ev))
	assert.Equal(t, "second", ev.SessionID)
}

func TestRedisTracker_NeverPanicsOnDeadBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	tr := NewRedis(client, zerolog.Nop())
	assert.NotPanics(t, func() {
		tr.Track(context.Background(), Event{SessionID: "s1"})
	})
}
