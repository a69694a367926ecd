// SPDX-License-Identifier: MIT

// Package processing coordinates the job lifecycle between the HTTP
// boundary and the background transform workers. The session store is the
// single source of truth: workers communicate results exclusively by
// rewriting the job record.
package processing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dampdf/dampdf/internal/artifact"
	"github.com/dampdf/dampdf/internal/metrics"
	"github.com/dampdf/dampdf/internal/processing/tools"
	"github.com/dampdf/dampdf/internal/session"
	"github.com/dampdf/dampdf/internal/usage"
)

const defaultQueueSize = 100

// Options configures an Orchestrator.
type Options struct {
	// Timeout bounds a single transform invocation. Zero means 60s.
	Timeout time.Duration
	// Workers is the number of background transform workers. Zero means 2.
	Workers int
	// WorkDir is the scratch directory for transform inputs and outputs.
	// Zero value means the OS temp dir.
	WorkDir string
}

// Orchestrator decouples the client-facing start request from transform
// execution. Start persists the queued→processing transition synchronously,
// then hands the job to a worker over a channel; the request returns as soon
// as the transition is durable.
type Orchestrator struct {
	sessions  *session.Manager
	artifacts artifact.Store
	runner    tools.Runner
	tracker   usage.Tracker
	logger    zerolog.Logger
	timeout   time.Duration
	workDir   string
	now       func() time.Time

	queue chan string // session ids awaiting a worker
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// New creates an orchestrator and starts its worker pool.
func New(sessions *session.Manager, artifacts artifact.Store, runner tools.Runner, tracker usage.Tracker, logger zerolog.Logger, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}

	o := &Orchestrator{
		sessions:  sessions,
		artifacts: artifacts,
		runner:    runner,
		tracker:   tracker,
		logger:    logger,
		timeout:   opts.Timeout,
		workDir:   opts.WorkDir,
		now:       time.Now,
		queue:     make(chan string, defaultQueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		o.wg.Add(1)
		go o.worker()
	}
	return o
}

// Close stops accepting work and waits for in-flight transforms to finish.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		close(o.queue)
	})
	o.wg.Wait()
}

// Start begins processing for a queued job. The queued→processing write is
// acknowledged by the store before Start returns, so a concurrent status
// poll never observes a started job as still queued. A job that is already
// processing or terminal is rejected with ErrAlreadyStarted.
func (o *Orchestrator) Start(ctx context.Context, id string) (*session.Record, error) {
	rec, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.State != session.StateQueued {
		return nil, fmt.Errorf("%w: session %s is %s", ErrAlreadyStarted, id, rec.State)
	}

	err = o.sessions.Transition(ctx, rec, session.StateProcessing, func(r *session.Record) {
		r.Progress = 10
		r.Message = "Processing started"
	})
	if err != nil {
		return nil, err
	}

	select {
	case o.queue <- rec.ID:
	default:
		// The transition is already durable; a full queue fails the job
		// rather than leaving it stuck in processing forever.
		o.failJob(context.Background(), rec, "server busy, please try again later")
		return nil, ErrQueueFull
	}
	return rec, nil
}

// Status returns the current job record. NotFound when unknown or expired.
func (o *Orchestrator) Status(ctx context.Context, id string) (*session.Record, error) {
	return o.sessions.Get(ctx, id)
}

// worker dequeues jobs and executes transforms until the queue is closed.
// It runs independently of any request lifetime.
func (o *Orchestrator) worker() {
	defer o.wg.Done()
	for id := range o.queue {
		o.process(id)
	}
}

// process executes one transform end to end. Every failure path lands the
// job in the failed state; no error escapes to the worker loop.
func (o *Orchestrator) process(id string) {
	ctx := context.Background()
	logger := o.logger.With().Str("session_id", id).Logger()

	rec, err := o.sessions.Get(ctx, id)
	if err != nil {
		// Evicted between start and pickup; nothing to update.
		logger.Warn().Err(err).Msg("session vanished before processing")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic_value", r).Msg("panic during processing")
			o.failJob(ctx, rec, "internal processing error")
		}
	}()

	rec.Progress = 30
	rec.Message = "Processing file..."
	if err := o.sessions.Update(ctx, rec); err != nil {
		// Advisory progress write; the terminal write below decides the
		// job's fate.
		logger.Warn().Err(err).Msg("progress update not persisted")
	}

	start := o.now()
	result, err := o.runTransform(ctx, rec, logger)
	metrics.ObserveProcessingDuration(rec.ToolType.String(), o.now().Sub(start).Seconds())

	if err != nil {
		logger.Error().Err(err).Str("tool_type", rec.ToolType.String()).Msg("processing failed")
		o.failJob(ctx, rec, sanitizeError(err, o.timeout))
		return
	}

	err = o.sessions.Transition(ctx, rec, session.StateCompleted, func(r *session.Record) {
		r.Progress = 100
		r.Message = "Processing complete"
		r.OutputPath = result.OutputPath
		r.OutputFilename = result.OutputFilename
		r.OriginalSize = result.OriginalSize
		r.ProcessedSize = result.ProcessedSize
		r.CompressionRatio = result.Ratio()
	})
	if err != nil {
		logger.Error().Err(err).Msg("completion not persisted")
		o.failJob(ctx, rec, "failed to record processing result")
		return
	}

	metrics.RecordJobOutcome(rec.ToolType.String(), "completed")
	logger.Info().
		Str("tool_type", rec.ToolType.String()).
		Int64("original_size", result.OriginalSize).
		Int64("processed_size", result.ProcessedSize).
		Msg("processing completed")
}

// runTransform materializes the input artifact into the scratch directory,
// invokes the transform under the configured deadline and stores the output
// artifact. The returned CompletionResult references the stored artifact.
func (o *Orchestrator) runTransform(ctx context.Context, rec *session.Record, logger zerolog.Logger) (session.CompletionResult, error) {
	scratch, err := os.MkdirTemp(o.workDir, "dampdf-job-*")
	if err != nil {
		return session.CompletionResult{}, fmt.Errorf("scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn().Err(err).Str("path", scratch).Msg("scratch cleanup failed")
		}
	}()

	inputPath, err := o.fetchInput(ctx, rec, scratch)
	if err != nil {
		return session.CompletionResult{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.runner.Run(runCtx, tools.Request{
		Tool:             rec.ToolType,
		InputPath:        inputPath,
		OutputDir:        scratch,
		OriginalFilename: rec.OriginalFilename,
		Options:          rec.Options,
	})
	if err != nil {
		return session.CompletionResult{}, err
	}

	out, err := os.Open(result.OutputPath)
	if err != nil {
		return session.CompletionResult{}, fmt.Errorf("transform output missing: %w", err)
	}
	defer func() { _ = out.Close() }()

	ref, _, err := o.artifacts.Save(ctx, filepath.Join("outputs", rec.ID, result.OutputFilename), out)
	if err != nil {
		return session.CompletionResult{}, fmt.Errorf("store output artifact: %w", err)
	}

	return session.CompletionResult{
		OutputPath:     ref,
		OutputFilename: result.OutputFilename,
		OriginalSize:   result.OriginalSize,
		ProcessedSize:  result.ProcessedSize,
	}, nil
}

// fetchInput copies the uploaded artifact into the scratch directory. The
// copy keeps the original extension because LibreOffice infers the input
// format from it.
func (o *Orchestrator) fetchInput(ctx context.Context, rec *session.Record, scratch string) (string, error) {
	r, _, err := o.artifacts.Open(ctx, rec.InputPath)
	if errors.Is(err, artifact.ErrNotFound) {
		return "", fmt.Errorf("uploaded file no longer available")
	}
	if err != nil {
		return "", fmt.Errorf("read uploaded file: %w", err)
	}
	defer func() { _ = r.Close() }()

	inputPath := filepath.Join(scratch, "input"+filepath.Ext(rec.OriginalFilename))
	f, err := os.Create(inputPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("copy uploaded file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return inputPath, nil
}

// failJob lands rec in the failed state with a caller-safe message. The
// transition is skipped when the record is already terminal.
func (o *Orchestrator) failJob(ctx context.Context, rec *session.Record, detail string) {
	if rec.State.IsTerminal() {
		return
	}
	err := o.sessions.Transition(ctx, rec, session.StateFailed, func(r *session.Record) {
		r.Message = "Processing failed"
		r.ErrorDetail = detail
	})
	if err != nil {
		o.logger.Error().
			Err(err).
			Str("session_id", rec.ID).
			Msg("failed state not persisted")
		return
	}
	metrics.RecordJobOutcome(rec.ToolType.String(), "failed")
}

// sanitizeError reduces a transform error to a message safe to show the
// client. Server-side paths never leak; full detail stays in the logs.
func sanitizeError(err error, timeout time.Duration) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("processing timed out after %s", timeout)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "file processing failed"
	}
	return err.Error()
}
