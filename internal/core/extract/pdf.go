package extract

import (
	"fmt"
	"os"

	"code.sajari.com/docconv"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

var _ core.Extractor = (*PDF)(nil)

// PDF extracts text from PDF files via docconv (pdftotext under the hood).
type PDF struct{}

func NewPDF() *PDF { return &PDF{} }

func (p *PDF) Extensions() []string { return []string{".pdf"} }

func (p *PDF) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", core.ErrExtraction, path, err)
	}
	defer f.Close()

	res, _, err := docconv.ConvertPDF(f)
	if err != nil {
		return "", fmt.Errorf("%w: pdf convert: %v", core.ErrExtraction, err)
	}
	return res, nil
}
