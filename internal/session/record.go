// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"time"
)

// Record is the session document persisted in the store. It captures upload
// metadata, transform parameters and the current lifecycle state of a job.
//
// The store's own TTL is the authoritative deletion trigger; ExpiresAt is
// derived from it on every write and exists for display and for the download
// gate's clock-skew check.
type Record struct {
	ID               string         `json:"session_id"`
	State            State          `json:"status"`
	Progress         int            `json:"progress"`
	ToolType         ToolType       `json:"tool_type"`
	Options          map[string]any `json:"options,omitempty"`
	OriginalFilename string         `json:"original_filename"`
	ContentType      string         `json:"file_type"`
	Size             int64          `json:"size"`
	InputPath        string         `json:"input_path"`
	OutputPath       string         `json:"output_path,omitempty"`
	OutputFilename   string         `json:"output_filename,omitempty"`
	OriginalSize     int64          `json:"original_size,omitempty"`
	ProcessedSize    int64          `json:"processed_size,omitempty"`
	CompressionRatio float64        `json:"compression_ratio,omitempty"`
	Message          string         `json:"message,omitempty"`
	ErrorDetail      string         `json:"error,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	ExpiresAt        time.Time      `json:"expires_at"`
}

// Validate checks the record's internal invariants.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record has no session id")
	}
	if !r.State.IsValid() {
		return fmt.Errorf("record %s: invalid state %q", r.ID, r.State)
	}
	if !r.ToolType.IsValid() {
		return fmt.Errorf("record %s: invalid tool type %q", r.ID, r.ToolType)
	}
	if r.Progress < 0 || r.Progress > 100 {
		return fmt.Errorf("record %s: progress %d out of range [0,100]", r.ID, r.Progress)
	}
	if r.OutputPath != "" && r.State != StateCompleted {
		return fmt.Errorf("record %s: output set but state is %q", r.ID, r.State)
	}
	if r.State == StateFailed && r.ErrorDetail == "" {
		return fmt.Errorf("record %s: failed without error detail", r.ID)
	}
	return nil
}

// Expired reports whether the record's own expiry marker has lapsed. The
// store TTL normally evicts first; this catches clock skew between the two.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// CompletionResult carries the outcome of a successful transform.
type CompletionResult struct {
	OutputPath     string
	OutputFilename string
	OriginalSize   int64
	ProcessedSize  int64
}

// Ratio computes the compression ratio in percent, clamped to zero so a
// transform that grows the file never reports negative savings.
func (cr CompletionResult) Ratio() float64 {
	if cr.OriginalSize <= 0 {
		return 0
	}
	ratio := float64(cr.OriginalSize-cr.ProcessedSize) / float64(cr.OriginalSize) * 100
	if ratio < 0 {
		return 0
	}
	return ratio
}
