package core

import "errors"

// Pipeline and retrieval error taxonomy. Stage errors wrap these sentinels
// so callers can branch with errors.Is without depending on the concrete
// adapter that failed.
var (
	// ErrUnsupportedFormat signals a file extension no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtraction signals an unreadable or empty source document.
	ErrExtraction = errors.New("text extraction failed")
	// ErrEmbedding signals an embedding provider failure.
	ErrEmbedding = errors.New("embedding failed")
	// ErrStore signals a vector store failure (upsert or search).
	ErrStore = errors.New("vector store unavailable")
	// ErrRewrite signals a query rewrite failure. Non-fatal: retrieval
	// degrades to the raw query.
	ErrRewrite = errors.New("query rewrite failed")
	// ErrDocumentNotFound signals a missing document row.
	ErrDocumentNotFound = errors.New("document not found")
)
