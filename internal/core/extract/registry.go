package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

// Registry routes a file to the adapter registered for its extension.
type Registry struct {
	byExt map[string]core.Extractor
}

// NewRegistry builds a registry from the given adapters. Later adapters win
// on extension conflicts.
func NewRegistry(adapters ...core.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]core.Extractor)}
	for _, a := range adapters {
		for _, ext := range a.Extensions() {
			r.byExt[strings.ToLower(ext)] = a
		}
	}
	return r
}

// Default returns a registry with the built-in adapters: PDF, DOCX and
// plain text.
func Default() *Registry {
	return NewRegistry(NewPDF(), NewDocx(), NewText())
}

// ExtractFile extracts plain text from the file at path. Unknown extensions
// error with core.ErrUnsupportedFormat; an adapter producing no text at all
// errors with core.ErrExtraction, so an unreadable document never silently
// indexes as empty.
func (r *Registry) ExtractFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	adapter, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}

	text, err := adapter.Extract(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text in %s", core.ErrExtraction, filepath.Base(path))
	}
	return text, nil
}
