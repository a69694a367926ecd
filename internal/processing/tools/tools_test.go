// SPDX-License-Identifier: MIT

package tools

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFilename(t *testing.T) {
	date := time.Now().Format("02012006")

	tests := []struct {
		name      string
		original  string
		targetExt string
		want      string
	}{
		{
			name:     "keeps original extension",
			original: "report.pdf",
			want:     "report_created_by_dampdf_" + date + ".pdf",
		},
		{
			name:      "conversion replaces extension",
			original:  "sheet.xlsx",
			targetExt: "pdf",
			want:      "sheet_created_by_dampdf_" + date + ".pdf",
		},
		{
			name:     "no extension",
			original: "README",
			want:     "README_created_by_dampdf_" + date,
		},
		{
			name:     "dotfile keeps its name",
			original: ".hidden",
			want:     ".hidden_created_by_dampdf_" + date,
		},
		{
			name:     "multiple dots use last",
			original: "archive.tar.gz",
			want:     "archive.tar_created_by_dampdf_" + date + ".gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.original, tt.targetExt))
		})
	}
}

func TestOptionHelpers(t *testing.T) {
	opts := map[string]any{
		"level":   "high",
		"quality": float64(85), // JSON numbers decode as float64
		"count":   3,
		"empty":   "",
	}

	assert.Equal(t, "high", stringOption(opts, "level", "medium"))
	assert.Equal(t, "medium", stringOption(opts, "missing", "medium"))
	assert.Equal(t, "medium", stringOption(opts, "empty", "medium"))
	assert.Equal(t, "medium", stringOption(nil, "level", "medium"))

	assert.Equal(t, 85, intOption(opts, "quality", 70))
	assert.Equal(t, 3, intOption(opts, "count", 1))
	assert.Equal(t, 70, intOption(opts, "missing", 70))
	assert.Equal(t, 70, intOption(nil, "quality", 70))
}

func TestToolbox_CompressImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	writePNG(t, input, 64, 64)

	tb := &Toolbox{Logger: zerolog.Nop()}
	res, err := tb.Run(context.Background(), Request{
		Tool:             "image-compress",
		InputPath:        input,
		OutputDir:        dir,
		OriginalFilename: "photo.png",
		Options:          map[string]any{"quality": float64(60)},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.OutputFilename, "photo_created_by_dampdf_"))
	assert.Positive(t, res.OriginalSize)
	assert.Positive(t, res.ProcessedSize)

	info, err := os.Stat(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, res.ProcessedSize, info.Size())
}

func TestToolbox_CompressImageUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(input, []byte("not an image"), 0o644))

	tb := &Toolbox{Logger: zerolog.Nop()}
	_, err := tb.Run(context.Background(), Request{
		Tool:             "image-compress",
		InputPath:        input,
		OutputDir:        dir,
		OriginalFilename: "broken.png",
	})
	require.Error(t, err)
}

func TestToolbox_UnsupportedTool(t *testing.T) {
	tb := &Toolbox{Logger: zerolog.Nop()}
	_, err := tb.Run(context.Background(), Request{
		Tool:             "rotate",
		InputPath:        "in",
		OutputDir:        t.TempDir(),
		OriginalFilename: "f.pdf",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported tool type")
}

func TestToolbox_RefusesToOverwriteOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	writePNG(t, input, 8, 8)

	name := OutputFilename("photo.png", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("existing"), 0o644))

	tb := &Toolbox{Logger: zerolog.Nop()}
	_, err := tb.Run(context.Background(), Request{
		Tool:             "image-compress",
		InputPath:        input,
		OutputDir:        dir,
		OriginalFilename: "photo.png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}
