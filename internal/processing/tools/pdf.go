// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Ghostscript preset per compression level. Higher levels downsample images
// more aggressively.
var pdfSettings = map[string]string{
	"low":    "/printer",
	"medium": "/ebook",
	"high":   "/screen",
}

// compressPDF rewrites the input PDF through Ghostscript with the preset
// matching the requested compression level (default medium).
func (t *Toolbox) compressPDF(ctx context.Context, inputPath, outputPath string, opts map[string]any) error {
	level := stringOption(opts, "compression_level", "medium")
	preset, ok := pdfSettings[level]
	if !ok {
		preset = pdfSettings["medium"]
	}

	cmd := exec.CommandContext(ctx, t.GhostscriptPath,
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS="+preset,
		"-dNOPAUSE", "-dQUIET", "-dBATCH",
		"-sOutputFile="+outputPath,
		inputPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("PDF compression timed out: %w", ctx.Err())
		}
		t.Logger.Error().
			Err(err).
			Str("stderr", stderr.String()).
			Msg("ghostscript failed")
		return fmt.Errorf("PDF compression failed: %w", err)
	}
	return nil
}
