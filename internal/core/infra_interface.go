package core

import (
	"context"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

// DbClient defines the persistence operations the pipeline and services
// need. It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id int64) (*models.Document, error)
	ListDocumentsByAgent(ctx context.Context, agentID int64) ([]models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id int64, status string) error

	Close() error
}

// VectorStore is the tenant-scoped gateway to the vector index. Concrete
// store types never leak past this boundary, so the pipeline can be tested
// against an in-memory fake and the backend swapped without touching it.
type VectorStore interface {
	// Upsert writes the batch atomically: either every record reaches the
	// store or the call errors with nothing to clean up. Re-upserting an
	// existing record ID replaces it.
	Upsert(ctx context.Context, records []models.VectorRecord) error

	// SearchDense and SearchSparse return up to limit hits, each carrying
	// a mandatory equality filter on agentID. There is no unfiltered search.
	SearchDense(ctx context.Context, agentID int64, vector []float32, limit int) ([]models.ScoredRecord, error)
	SearchSparse(ctx context.Context, agentID int64, vector models.SparseVector, limit int) ([]models.ScoredRecord, error)

	// DeleteByAgent removes every record belonging to the agent. Used when
	// a tenant is decommissioned.
	DeleteByAgent(ctx context.Context, agentID int64) error
}
