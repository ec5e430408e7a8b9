package models

import (
	"time"
)

// Document lifecycle statuses. A document enters StatusProcessing when its
// upload is accepted and reaches exactly one terminal status per pipeline run.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusError      = "error"
)

// Document represents one uploaded file in an agent's knowledge base.
// The pipeline only ever mutates Status; everything else is written once
// when the upload is accepted.
type Document struct {
	ID        int64     `db:"id" json:"id"`
	AgentID   int64     `db:"agent_id" json:"agent_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	Status    string    `db:"status" json:"status"` // processing | ready | error
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SparseVector is a lexical embedding as index/value pairs over a fixed
// vocabulary. Indices and Values are parallel slices of equal length.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// Payload is the metadata stored alongside each vector record. AgentID is
// mandatory: every search filters on it, so a record missing it would be
// unreachable and a record with the wrong one would leak across agents.
type Payload struct {
	AgentID    int64  `json:"agent_id"`
	DocumentID int64  `json:"document_id"`
	Text       string `json:"text"`
	Source     string `json:"source"`
}

// VectorRecord is the unit stored in the vector index. ID is a UUIDv5 of
// (document id, chunk index), so re-ingesting the same chunk overwrites
// instead of duplicating.
type VectorRecord struct {
	ID      string
	Dense   []float32
	Sparse  SparseVector
	Payload Payload
}

// ScoredRecord is a single search match from the vector store: the record
// id (used to deduplicate across the dense and sparse branches), its stored
// payload and the backend's relevance score.
type ScoredRecord struct {
	ID      string
	Score   float32
	Payload Payload
}

// RetrievalHit is one ranked piece of context returned to the answering
// layer. Never persisted.
type RetrievalHit struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float32 `json:"score"`
}
