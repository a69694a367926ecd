// SPDX-License-Identifier: MIT

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRecord() *Record {
	return &Record{
		ID:               "abc",
		State:            StateQueued,
		ToolType:         ToolPDFCompress,
		OriginalFilename: "doc.pdf",
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr bool
	}{
		{"valid queued", func(r *Record) {}, false},
		{"missing id", func(r *Record) { r.ID = "" }, true},
		{"bad state", func(r *Record) { r.State = "exploded" }, true},
		{"bad tool", func(r *Record) { r.ToolType = "rm-rf" }, true},
		{"progress below range", func(r *Record) { r.Progress = -1 }, true},
		{"progress above range", func(r *Record) { r.Progress = 101 }, true},
		{"output without completed", func(r *Record) { r.OutputPath = "/x" }, true},
		{"output with completed", func(r *Record) {
			r.State = StateCompleted
			r.Progress = 100
			r.OutputPath = "/x"
		}, false},
		{"failed without detail", func(r *Record) { r.State = StateFailed }, true},
		{"failed with detail", func(r *Record) {
			r.State = StateFailed
			r.ErrorDetail = "boom"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			err := rec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompletionResult_RatioClamped(t *testing.T) {
	tests := []struct {
		name      string
		original  int64
		processed int64
		want      float64
	}{
		{"normal savings", 1000, 400, 60},
		{"no change", 1000, 1000, 0},
		{"output larger than input", 1000, 1500, 0},
		{"zero original", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := CompletionResult{OriginalSize: tt.original, ProcessedSize: tt.processed}
			ratio := cr.Ratio()
			assert.GreaterOrEqual(t, ratio, 0.0)
			assert.InDelta(t, tt.want, ratio, 0.001)
		})
	}
}

func TestRecord_Expired(t *testing.T) {
	now := time.Now()

	r := &Record{}
	assert.False(t, r.Expired(now), "zero expiry never counts as expired")

	r.ExpiresAt = now.Add(time.Hour)
	assert.False(t, r.Expired(now))

	r.ExpiresAt = now.Add(-time.Second)
	assert.True(t, r.Expired(now))
}
