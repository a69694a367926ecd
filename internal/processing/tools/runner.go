// SPDX-License-Identifier: MIT

// Package tools wraps the external transform collaborators: image
// re-encoding, Ghostscript PDF compression and LibreOffice document
// conversion. The wrappers carry no state of their own; every invocation is
// bounded by the caller's context deadline.
package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dampdf/dampdf/internal/session"
)

// Request describes one transform invocation. InputPath must be a readable
// local file; the output is written into OutputDir.
type Request struct {
	Tool             session.ToolType
	InputPath        string
	OutputDir        string
	OriginalFilename string
	Options          map[string]any
}

// Result is the outcome of a successful transform.
type Result struct {
	OutputPath     string
	OutputFilename string
	OriginalSize   int64
	ProcessedSize  int64
}

// Runner executes a single transform. Implementations honor ctx cancellation
// and deadlines; a cancelled run leaves no obligation on the caller beyond
// temp-dir cleanup.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// Toolbox is the production Runner. Binary paths are configurable so
// containerized deployments can point at non-standard install locations.
type Toolbox struct {
	LibreOfficePath string
	GhostscriptPath string
	Logger          zerolog.Logger
}

// Run dispatches to the tool selected by the request.
func (t *Toolbox) Run(ctx context.Context, req Request) (Result, error) {
	targetExt := ""
	if req.Tool.IsConversion() {
		targetExt = "pdf"
	}
	outputFilename := OutputFilename(req.OriginalFilename, targetExt)
	outputPath, err := uniquePath(req.OutputDir, outputFilename)
	if err != nil {
		return Result{}, err
	}

	switch req.Tool {
	case session.ToolImageCompress:
		err = t.compressImage(ctx, req.InputPath, outputPath, req.Options)
	case session.ToolPDFCompress:
		err = t.compressPDF(ctx, req.InputPath, outputPath, req.Options)
	case session.ToolDocxToPDF, session.ToolXlsxToPDF:
		err = t.convertToPDF(ctx, req.InputPath, outputPath)
	default:
		err = fmt.Errorf("unsupported tool type %q", req.Tool)
	}
	if err != nil {
		return Result{}, err
	}

	originalSize, err := fileSize(req.InputPath)
	if err != nil {
		return Result{}, err
	}
	processedSize, err := fileSize(outputPath)
	if err != nil {
		return Result{}, err
	}

	return Result{
		OutputPath:     outputPath,
		OutputFilename: outputFilename,
		OriginalSize:   originalSize,
		ProcessedSize:  processedSize,
	}, nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// uniquePath joins dir and name, failing if the target already exists so a
// transform never overwrites another job's output.
func uniquePath(dir, name string) (string, error) {
	path := dir + string(os.PathSeparator) + name
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("output %s already exists", name)
	}
	return path, nil
}

// stringOption reads a string from the options map with a default.
func stringOption(opts map[string]any, key, def string) string {
	if opts == nil {
		return def
	}
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return def
}

// intOption reads an integer from the options map with a default. JSON
// decoding produces float64, so both numeric shapes are accepted.
func intOption(opts map[string]any, key string, def int) int {
	if opts == nil {
		return def
	}
	switch v := opts[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
