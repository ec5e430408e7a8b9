package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

// DefaultLimit caps retrieval when the caller passes no limit.
const DefaultLimit = 5

const (
	rewriteSystemPrompt = "Reformulate the user's message into a search query for a knowledge base. Return only the query text."
	rewriteTemperature  = 0.1
)

// SearchService answers "find me context for this question" against one
// agent's slice of the vector index.
type SearchService struct {
	llm    core.LLMProvider
	dense  core.DenseEmbedder
	sparse core.SparseEmbedder
	store  core.VectorStore
	logger *zap.Logger
}

func NewSearchService(llm core.LLMProvider, dense core.DenseEmbedder, sparse core.SparseEmbedder, store core.VectorStore, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{llm: llm, dense: dense, sparse: sparse, store: store, logger: logger}
}

// Retrieve runs hybrid search for one agent: rewrite the question, embed it
// both ways, query the dense and sparse branches with the agent filter, then
// fuse. Store and embedding failures propagate — the caller must be able to
// tell "search unavailable" from "no hits". An empty index simply yields an
// empty result.
func (s *SearchService) Retrieve(ctx context.Context, agentID int64, query string, limit int) ([]models.RetrievalHit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	optimized := s.rewriteQuery(ctx, query)

	denseVecs, err := s.dense.EmbedTexts(ctx, []string{optimized})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	sparseVec := s.sparse.EmbedSparse(optimized)

	denseHits, err := s.store.SearchDense(ctx, agentID, denseVecs[0], limit)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}
	sparseHits, err := s.store.SearchSparse(ctx, agentID, sparseVec, limit)
	if err != nil {
		return nil, fmt.Errorf("sparse search: %w", err)
	}

	return fuse(denseHits, sparseHits, limit), nil
}

// rewriteQuery asks the LLM for a retrieval-oriented reformulation. The
// rewrite is an optimization, never a dependency: any failure or empty
// answer falls back to the raw query.
func (s *SearchService) rewriteQuery(ctx context.Context, raw string) string {
	optimized, err := s.llm.Generate(ctx, rewriteSystemPrompt, raw, rewriteTemperature)
	if err != nil {
		s.logger.Warn("query rewrite failed, using raw query", zap.Error(err))
		return raw
	}
	optimized = strings.TrimSpace(optimized)
	if optimized == "" {
		return raw
	}
	return optimized
}

// fuse concatenates the dense and sparse result lists and deduplicates by
// record id: the first occurrence wins, so a record found by both branches
// keeps its dense-branch rank. Plain dedup-concat, not reciprocal-rank
// fusion.
func fuse(denseHits, sparseHits []models.ScoredRecord, limit int) []models.RetrievalHit {
	seen := make(map[string]struct{}, len(denseHits)+len(sparseHits))
	out := make([]models.RetrievalHit, 0, limit)
	for _, h := range append(denseHits, sparseHits...) {
		if _, dup := seen[h.ID]; dup {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, models.RetrievalHit{
			Text:   h.Payload.Text,
			Source: h.Payload.Source,
			Score:  h.Score,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
