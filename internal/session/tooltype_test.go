// SPDX-License-Identifier: MIT

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolType(t *testing.T) {
	for _, valid := range []string{"image-compress", "pdf-compress", "docx-to-pdf", "xlsx-to-pdf"} {
		tool, err := ParseToolType(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, tool.String())
	}

	_, err := ParseToolType("mp3-to-wav")
	assert.Error(t, err)

	_, err = ParseToolType("")
	assert.Error(t, err)
}

func TestToolType_Accepts(t *testing.T) {
	assert.True(t, ToolImageCompress.Accepts("image/png"))
	assert.False(t, ToolImageCompress.Accepts("application/pdf"))

	assert.True(t, ToolPDFCompress.Accepts("application/pdf"))
	assert.False(t, ToolPDFCompress.Accepts("image/png"))

	assert.True(t, ToolDocxToPDF.Accepts("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.True(t, ToolXlsxToPDF.Accepts("application/vnd.ms-excel"))
	assert.False(t, ToolXlsxToPDF.Accepts("text/csv"))
}

func TestToolType_IsConversion(t *testing.T) {
	assert.False(t, ToolImageCompress.IsConversion())
	assert.False(t, ToolPDFCompress.IsConversion())
	assert.True(t, ToolDocxToPDF.IsConversion())
	assert.True(t, ToolXlsxToPDF.IsConversion())
}
