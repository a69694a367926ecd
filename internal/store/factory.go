// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dampdf/dampdf/internal/metrics"
)

// Open selects the storage backend. Redis is attempted first when an address
// is configured; on connection failure the in-process backend is used for
// the remainder of the process lifetime. There is no automatic promotion
// back to Redis.
func Open(ctx context.Context, cfg RedisOptions, logger zerolog.Logger) Store {
	if cfg.Addr != "" {
		s, err := NewRedis(ctx, cfg, logger)
		if err == nil {
			metrics.SetStoreBackend("redis")
			return s
		}
		logger.Warn().
			Err(err).
			Str("addr", cfg.Addr).
			Msg("Redis unavailable, falling back to in-memory session store")
	} else {
		logger.Info().Msg("no Redis address configured, using in-memory session store")
	}
	metrics.SetStoreBackend("memory")
	return NewMemory(logger)
}
