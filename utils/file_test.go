package utils

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "passwd", SanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "report_v2_.pdf", SanitizeFileName(`report:v2?.pdf`))
	assert.Equal(t, "plain.md", SanitizeFileName("plain.md"))
}

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveUpload("notes.txt", strings.NewReader("saved body"), dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".txt"))
	assert.Contains(t, path, "notes_")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved body", string(content))
}
