package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeFile(t, "notes.txt", "the quick brown fox")

	text, err := Default().ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", text)
}

func TestExtractMarkdown(t *testing.T) {
	path := writeFile(t, "readme.md", "# Title\n\nbody text")

	text, err := Default().ExtractFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "body text")
}

func TestExtractUppercaseExtension(t *testing.T) {
	path := writeFile(t, "NOTES.TXT", "case should not matter")

	text, err := Default().ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "case should not matter", text)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "archive.zip", "binary junk")

	_, err := Default().ExtractFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
}

func TestExtractEmptyDocument(t *testing.T) {
	path := writeFile(t, "blank.txt", "   \n\t\n")

	_, err := Default().ExtractFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtraction))
}

func TestExtractInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x41}, 0o644))

	_, err := Default().ExtractFile(path)
	require.Error(t, err)
}
