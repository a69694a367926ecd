// SPDX-License-Identifier: MIT

package tools

import (
	"fmt"
	"strings"
	"time"
)

// OutputFilename derives the name of a produced artifact from the uploaded
// filename: "<base>_created_by_dampdf_<DDMMYYYY>.<ext>". A non-empty
// targetExt replaces the original extension (format conversions).
func OutputFilename(original, targetExt string) string {
	base := original
	ext := ""
	if idx := strings.LastIndex(original, "."); idx > 0 {
		base = original[:idx]
		ext = original[idx+1:]
	}
	if targetExt != "" {
		ext = targetExt
	}
	date := time.Now().Format("02012006")
	if ext == "" {
		return fmt.Sprintf("%s_created_by_dampdf_%s", base, date)
	}
	return fmt.Sprintf("%s_created_by_dampdf_%s.%s", base, date, ext)
}
