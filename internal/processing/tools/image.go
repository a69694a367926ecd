// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const defaultJPEGQuality = 70

// compressImage re-encodes the input image as JPEG at the requested quality.
// Inputs with an alpha channel are flattened by the JPEG encoder.
func (t *Toolbox) compressImage(ctx context.Context, inputPath, outputPath string, opts map[string]any) error {
	quality := intOption(opts, "quality", defaultJPEGQuality)
	if quality < 1 || quality > 100 {
		quality = defaultJPEGQuality
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("image compression failed: %w", err)
	}
	defer func() { _ = in.Close() }()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("image compression failed: unreadable input: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("image compression failed: %w", err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = out.Close()
		return fmt.Errorf("image compression failed: %w", err)
	}
	return out.Close()
}
