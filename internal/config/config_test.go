// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, time.Hour, cfg.PendingTTL)
	assert.Equal(t, 24*time.Hour, cfg.ProcessedTTL)
	assert.Equal(t, time.Minute, cfg.ProcessTimeout)
	assert.Equal(t, "libreoffice", cfg.LibreOfficePath)
	assert.Equal(t, "gs", cfg.GhostscriptPath)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DAMPDF_LISTEN", ":9090")
	t.Setenv("DAMPDF_REDIS_ADDR", "redis:6379")
	t.Setenv("DAMPDF_MAX_UPLOAD_MB", "100")
	t.Setenv("DAMPDF_PROCESS_TIMEOUT_SECONDS", "120")
	t.Setenv("DAMPDF_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 100, cfg.MaxUploadMB)
	assert.Equal(t, 2*time.Minute, cfg.ProcessTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DAMPDF_MAX_UPLOAD_MB", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, 50, cfg.MaxUploadMB)
}

func TestValidate(t *testing.T) {
	base := FromEnv()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"empty listen addr", func(c *AppConfig) { c.ListenAddr = "" }},
		{"zero upload cap", func(c *AppConfig) { c.MaxUploadMB = 0 }},
		{"negative pending TTL", func(c *AppConfig) { c.PendingTTL = -time.Hour }},
		{"zero processed TTL", func(c *AppConfig) { c.ProcessedTTL = 0 }},
		{"zero process timeout", func(c *AppConfig) { c.ProcessTimeout = 0 }},
		{"no storage configured", func(c *AppConfig) {
			c.DataDir = ""
			c.S3.Endpoint = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := AppConfig{MaxUploadMB: 2}
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
}
