package core

// Extractor turns one document format into plain text. Adapters are
// registered per file extension so new formats add without touching the
// existing ones.
type Extractor interface {
	// Extensions lists the lower-case file extensions (with dot) this
	// adapter handles.
	Extensions() []string

	// Extract reads the file at path and returns its plain text. An
	// unreadable or corrupt file yields an error wrapping ErrExtraction.
	Extract(path string) (string, error)
}
