// SPDX-License-Identifier: MIT

package session

import (
	"encoding/json"
	"fmt"
)

// ToolType selects which transform a job runs. It is immutable once set at
// upload time.
type ToolType string

// Supported transform tools.
const (
	ToolImageCompress ToolType = "image-compress"
	ToolPDFCompress   ToolType = "pdf-compress"
	ToolDocxToPDF     ToolType = "docx-to-pdf"
	ToolXlsxToPDF     ToolType = "xlsx-to-pdf"
)

// String returns the string representation of the tool type.
func (t ToolType) String() string {
	return string(t)
}

// IsValid checks whether the tool type is one of the defined constants.
func (t ToolType) IsValid() bool {
	switch t {
	case ToolImageCompress, ToolPDFCompress, ToolDocxToPDF, ToolXlsxToPDF:
		return true
	default:
		return false
	}
}

// IsConversion reports whether the tool changes the document format and
// therefore produces a .pdf regardless of the input extension.
func (t ToolType) IsConversion() bool {
	return t == ToolDocxToPDF || t == ToolXlsxToPDF
}

// AcceptedContentTypes lists the MIME types a tool accepts as input.
func (t ToolType) AcceptedContentTypes() []string {
	switch t {
	case ToolImageCompress:
		return []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	case ToolPDFCompress:
		return []string{"application/pdf"}
	case ToolDocxToPDF:
		return []string{
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/msword",
		}
	case ToolXlsxToPDF:
		return []string{
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-excel",
		}
	default:
		return nil
	}
}

// Accepts reports whether contentType is valid input for the tool.
func (t ToolType) Accepts(contentType string) bool {
	for _, ct := range t.AcceptedContentTypes() {
		if ct == contentType {
			return true
		}
	}
	return false
}

// ParseToolType parses a string into a ToolType, returning an error if invalid.
func ParseToolType(s string) (ToolType, error) {
	t := ToolType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid tool type: %q (valid: image-compress, pdf-compress, docx-to-pdf, xlsx-to-pdf)", s)
	}
	return t, nil
}

// MarshalJSON implements json.Marshaler for ToolType.
func (t ToolType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON implements json.Unmarshaler for ToolType.
func (t *ToolType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	tool := ToolType(str)
	if !tool.IsValid() {
		return fmt.Errorf("invalid tool type: %q", str)
	}
	*t = tool
	return nil
}
