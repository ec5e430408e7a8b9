package extract

import (
	"fmt"
	"os"

	"code.sajari.com/docconv"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

var _ core.Extractor = (*Docx)(nil)

// Docx extracts paragraph text from Office Open XML documents via docconv.
type Docx struct{}

func NewDocx() *Docx { return &Docx{} }

func (d *Docx) Extensions() []string { return []string{".docx"} }

func (d *Docx) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", core.ErrExtraction, path, err)
	}
	defer f.Close()

	res, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", fmt.Errorf("%w: docx convert: %v", core.ErrExtraction, err)
	}
	return res, nil
}
