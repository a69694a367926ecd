// SPDX-License-Identifier: MIT

// Package config provides environment-driven configuration for the dampdf
// service. All settings use the DAMPDF_ prefix and have defaults suitable for
// local development.
package config

import (
	"fmt"
	"strings"
	"time"
)

// AppConfig holds the complete runtime configuration.
type AppConfig struct {
	// HTTP server
	ListenAddr     string
	AllowedOrigins []string

	// Rate limiting
	RateLimitRPM int // requests per minute per client IP, 0 disables

	// Redis session store; empty Addr disables Redis and forces the
	// in-memory fallback.
	Redis RedisConfig

	// Artifact storage
	DataDir string
	S3      S3Config

	// File processing
	MaxUploadMB     int
	PendingTTL      time.Duration // TTL while a job awaits or runs processing
	ProcessedTTL    time.Duration // TTL once an output artifact exists
	ProcessTimeout  time.Duration // hard deadline for a single transform
	LibreOfficePath string
	GhostscriptPath string
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config holds optional S3-compatible artifact storage configuration.
// When Endpoint is empty, artifacts are stored on the local filesystem.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FromEnv builds an AppConfig from environment variables.
func FromEnv() AppConfig {
	return AppConfig{
		ListenAddr:     ParseString("DAMPDF_LISTEN", ":8080"),
		AllowedOrigins: splitCSV(ParseString("DAMPDF_CORS_ORIGINS", "")),
		RateLimitRPM:   ParseInt("DAMPDF_RATE_LIMIT_RPM", 60),
		Redis: RedisConfig{
			Addr:     ParseString("DAMPDF_REDIS_ADDR", ""),
			Password: ParseString("DAMPDF_REDIS_PASSWORD", ""),
			DB:       ParseInt("DAMPDF_REDIS_DB", 0),
		},
		DataDir: ParseString("DAMPDF_DATA_DIR", "/tmp/dampdf"),
		S3: S3Config{
			Endpoint:  ParseString("DAMPDF_S3_ENDPOINT", ""),
			AccessKey: ParseString("DAMPDF_S3_ACCESS_KEY", ""),
			SecretKey: ParseString("DAMPDF_S3_SECRET_KEY", ""),
			Bucket:    ParseString("DAMPDF_S3_BUCKET", "dampdf-artifacts"),
			UseSSL:    ParseBool("DAMPDF_S3_USE_SSL", true),
		},
		MaxUploadMB:     ParseInt("DAMPDF_MAX_UPLOAD_MB", 50),
		PendingTTL:      time.Duration(ParseInt("DAMPDF_PENDING_TTL_HOURS", 1)) * time.Hour,
		ProcessedTTL:    time.Duration(ParseInt("DAMPDF_PROCESSED_TTL_HOURS", 24)) * time.Hour,
		ProcessTimeout:  time.Duration(ParseInt("DAMPDF_PROCESS_TIMEOUT_SECONDS", 60)) * time.Second,
		LibreOfficePath: ParseString("DAMPDF_LIBREOFFICE_PATH", "libreoffice"),
		GhostscriptPath: ParseString("DAMPDF_GHOSTSCRIPT_PATH", "gs"),
	}
}

// Validate checks the configuration for values that cannot work at runtime.
func (c AppConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadMB)
	}
	if c.PendingTTL <= 0 || c.ProcessedTTL <= 0 {
		return fmt.Errorf("TTLs must be positive (pending=%s processed=%s)", c.PendingTTL, c.ProcessedTTL)
	}
	if c.ProcessTimeout <= 0 {
		return fmt.Errorf("process timeout must be positive, got %s", c.ProcessTimeout)
	}
	if c.DataDir == "" && c.S3.Endpoint == "" {
		return fmt.Errorf("either a data dir or an S3 endpoint must be configured")
	}
	return nil
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c AppConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
