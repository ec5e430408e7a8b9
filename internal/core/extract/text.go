package extract

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

var _ core.Extractor = (*Text)(nil)

// Text handles plain text files by reading them as-is.
type Text struct{}

func NewText() *Text { return &Text{} }

func (t *Text) Extensions() []string { return []string{".txt", ".md"} }

func (t *Text) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", core.ErrExtraction, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", core.ErrExtraction, path)
	}
	return string(data), nil
}
