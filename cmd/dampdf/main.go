// SPDX-License-Identifier: MIT

// Command dampdf runs the file-transform API server: uploads, background
// processing and expiring downloads.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dampdf/dampdf/internal/api"
	"github.com/dampdf/dampdf/internal/artifact"
	"github.com/dampdf/dampdf/internal/config"
	"github.com/dampdf/dampdf/internal/log"
	"github.com/dampdf/dampdf/internal/processing"
	"github.com/dampdf/dampdf/internal/processing/tools"
	"github.com/dampdf/dampdf/internal/session"
	"github.com/dampdf/dampdf/internal/store"
	"github.com/dampdf/dampdf/internal/usage"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	log.Configure(log.Config{Service: "dampdf"})
	logger := log.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("main")

	st := store.Open(ctx, store.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log.WithComponent("store"))
	defer func() { _ = st.Close() }()

	sessions := session.NewManager(st, session.TTLs{
		Pending:   cfg.PendingTTL,
		Processed: cfg.ProcessedTTL,
	}, log.WithComponent("session"))

	artifacts, err := openArtifacts(ctx, cfg)
	if err != nil {
		return err
	}

	// Usage accounting shares the store's backend choice: when sessions run
	// on Redis, events land on a Redis list for external consumers.
	var tracker usage.Tracker
	if st.Backend() == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()
		tracker = usage.NewRedis(client, log.WithComponent("usage"))
	} else {
		tracker = usage.NewMemory(log.WithComponent("usage"))
	}

	runner := &tools.Toolbox{
		LibreOfficePath: cfg.LibreOfficePath,
		GhostscriptPath: cfg.GhostscriptPath,
		Logger:          log.WithComponent("tools"),
	}

	orch := processing.New(sessions, artifacts, runner, tracker,
		log.WithComponent("processing"), processing.Options{
			Timeout: cfg.ProcessTimeout,
			WorkDir: cfg.DataDir,
		})
	defer orch.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(cfg, sessions, artifacts, orch).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Str("version", version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown incomplete")
	}
	return nil
}

func openArtifacts(ctx context.Context, cfg config.AppConfig) (artifact.Store, error) {
	if cfg.S3.Endpoint != "" {
		return artifact.NewS3(ctx, artifact.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		}, log.WithComponent("artifact"))
	}
	return artifact.NewLocal(cfg.DataDir, log.WithComponent("artifact"))
}
