package ingest

import (
	"context"
	"time"
)

// Config tunes the ingestion pipeline.
//
// ChunkSize:    target chunk length in runes (e.g. 1000).
// ChunkOverlap: tail context repeated into the next chunk (e.g. 100).
// BatchSize:    how many chunks go to the dense embedder per request.
// Timeout:      hard bound for one document's run; on expiry the document
//               lands in error instead of hanging in processing forever.
// QueueSize:    capacity of the in-memory job queue.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
	Timeout      time.Duration
	QueueSize    int
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.ChunkSize <= 0 {
		out.ChunkSize = 1000
	}
	if out.ChunkOverlap < 0 {
		out.ChunkOverlap = 0
	}
	if out.BatchSize <= 0 {
		out.BatchSize = 16
	}
	if out.Timeout <= 0 {
		out.Timeout = 5 * time.Minute
	}
	if out.QueueSize <= 0 {
		out.QueueSize = 64
	}
	return out
}

// Job identifies one uploaded file to index: where it sits on disk and which
// agent/document it belongs to.
type Job struct {
	FilePath   string
	AgentID    int64
	DocumentID int64
}

// FileExtractor routes a file to the text adapter for its format.
type FileExtractor interface {
	ExtractFile(path string) (string, error)
}

// Ingestor schedules and runs document indexing.
type Ingestor interface {
	Start(ctx context.Context, numWorkers int)
	StartIngestion(ctx context.Context, filePath string, agentID, documentID int64) error
	ProcessOne(ctx context.Context, j Job) error
}
