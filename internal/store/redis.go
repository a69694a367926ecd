// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStore delegates TTL enforcement and eviction to a Redis server.
// Values are opaque bytes; callers serialize to a stable format (JSON) so
// the keyspace stays inspectable with standard tooling.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis connects to Redis and returns the networked backend. The
// connection is verified with a ping so callers can fall back when the
// server is unreachable.
func NewRedis(ctx context.Context, cfg RedisOptions, logger zerolog.Logger) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis session store")

	return &redisStore{client: client, logger: logger}, nil
}

// RedisOptions holds Redis connection parameters.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func (s *redisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("redis set failed")
		return fmt.Errorf("store put %q: %w", key, err)
	}
	s.logger.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Msg("redis store put")
	return nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		// Read failures surface as NotFound to callers but are logged
		// distinctly for operability.
		s.logger.Error().Err(err).Str("key", key).Msg("redis get failed")
		return nil, ErrNotFound
	}
	return val, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("redis delete failed")
		return false, fmt.Errorf("store delete %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *redisStore) Backend() string { return "redis" }

func (s *redisStore) Close() error { return s.client.Close() }
