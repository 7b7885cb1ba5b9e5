package pdftext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBogus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFirstPageText_FailsSoft(t *testing.T) {
	assert.Equal(t, "", FirstPageText(filepath.Join(t.TempDir(), "missing.pdf")))
	assert.Equal(t, "", FirstPageText(writeBogus(t, "not a pdf at all")))
	assert.Equal(t, "", FirstPageText(writeBogus(t, "%PDF-1.7\ntruncated garbage")))
}

func TestPageCount_FailsSoft(t *testing.T) {
	assert.Equal(t, 0, PageCount(writeBogus(t, "still not a pdf")))
}

func TestValidate_RejectsGarbage(t *testing.T) {
	assert.False(t, Validate(writeBogus(t, "garbage bytes")))
}
