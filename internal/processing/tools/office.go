// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// convertToPDF runs LibreOffice headless to convert an office document. The
// binary writes "<input base>.pdf" into the output directory; the generated
// file is then renamed to the requested output path. The context deadline
// kills a hung conversion.
func (t *Toolbox) convertToPDF(ctx context.Context, inputPath, outputPath string) error {
	outputDir := filepath.Dir(outputPath)

	cmd := exec.CommandContext(ctx, t.LibreOfficePath,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outputDir,
		inputPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("document conversion timed out: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "unknown conversion error"
		}
		t.Logger.Error().
			Err(err).
			Str("stderr", msg).
			Msg("libreoffice conversion failed")
		return fmt.Errorf("document conversion failed: %s", msg)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	generated := filepath.Join(outputDir, base+".pdf")
	if _, err := os.Stat(generated); err != nil {
		return fmt.Errorf("document conversion failed: converted file not found")
	}
	if err := os.Rename(generated, outputPath); err != nil {
		return fmt.Errorf("document conversion failed: %w", err)
	}
	return nil
}
