package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

// Named vectors inside the collection: one dense semantic vector and one
// sparse lexical vector per point.
const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse-text"
)

var _ core.VectorStore = (*Client)(nil)

// Client is a minimal REST client to Qdrant. It owns one collection holding
// every agent's records; isolation comes from the agent_id payload filter
// that every search and delete carries.
type Client struct {
	url        string
	apiKey     string
	collection string
	denseDim   int
	client     *http.Client
	logger     *zap.Logger
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	DenseDim   int
	Timeout    time.Duration
	Logger     *zap.Logger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		denseDim:   cfg.DenseDim,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// PointID derives the deterministic identifier for one chunk of one
// document. UUIDv5 over the DNS namespace: stable, collision-resistant and
// always a valid Qdrant point id, unlike a raw "docID_index" string.
func PointID(documentID int64, chunkIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(fmt.Sprintf("%d_%d", documentID, chunkIndex))).String()
}

// EnsureCollection creates the collection if missing. Qdrant answers 200 for
// an existing collection with the same schema.
func (c *Client) EnsureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			denseVectorName: map[string]any{
				"size":     c.denseDim,
				"distance": "Cosine",
			},
		},
		"sparse_vectors": map[string]any{
			sparseVectorName: map[string]any{},
		},
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", c.collection), body, nil)
}

// Upsert writes all records in one call with wait=true, so either the whole
// batch is applied before we return or the call errors. Existing point ids
// are replaced.
func (c *Client) Upsert(ctx context.Context, records []models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]map[string]any, len(records))
	for i, r := range records {
		// Qdrant rejects null where an array is expected, so a zero-value
		// sparse vector must still serialize as empty arrays.
		sparseIndices := r.Sparse.Indices
		if sparseIndices == nil {
			sparseIndices = []uint32{}
		}
		sparseValues := r.Sparse.Values
		if sparseValues == nil {
			sparseValues = []float32{}
		}
		points[i] = map[string]any{
			"id": r.ID,
			"vector": map[string]any{
				denseVectorName: r.Dense,
				sparseVectorName: map[string]any{
					"indices": sparseIndices,
					"values":  sparseValues,
				},
			},
			"payload": map[string]any{
				"agent_id":    r.Payload.AgentID,
				"document_id": r.Payload.DocumentID,
				"text":        r.Payload.Text,
				"source":      r.Payload.Source,
			},
		}
	}
	err := c.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", c.collection),
		map[string]any{"points": points}, nil)
	if err != nil {
		return err
	}
	c.logger.Debug("upserted points", zap.Int("count", len(points)), zap.String("collection", c.collection))
	return nil
}

// SearchDense runs a dense KNN query restricted to one agent.
func (c *Client) SearchDense(ctx context.Context, agentID int64, vector []float32, limit int) ([]models.ScoredRecord, error) {
	return c.search(ctx, agentID, map[string]any{
		"name":   denseVectorName,
		"vector": vector,
	}, limit)
}

// SearchSparse runs a sparse lexical query restricted to one agent.
func (c *Client) SearchSparse(ctx context.Context, agentID int64, vector models.SparseVector, limit int) ([]models.ScoredRecord, error) {
	return c.search(ctx, agentID, map[string]any{
		"name": sparseVectorName,
		"vector": map[string]any{
			"indices": vector.Indices,
			"values":  vector.Values,
		},
	}, limit)
}

func (c *Client) search(ctx context.Context, agentID int64, namedVector map[string]any, limit int) ([]models.ScoredRecord, error) {
	req := map[string]any{
		"vector":       namedVector,
		"limit":        limit,
		"with_payload": true,
		// Isolation: the filter is built here, next to the request, so no
		// search can be issued without it.
		"filter": agentFilter(agentID),
	}

	var resp struct {
		Result []struct {
			ID      string         `json:"id"`
			Score   float32        `json:"score"`
			Payload models.Payload `json:"payload"`
		} `json:"result"`
	}
	err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", c.collection), req, &resp)
	if err != nil {
		return nil, err
	}

	hits := make([]models.ScoredRecord, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, models.ScoredRecord{ID: r.ID, Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

// DeleteByAgent removes every point whose payload belongs to the agent.
func (c *Client) DeleteByAgent(ctx context.Context, agentID int64) error {
	body := map[string]any{"filter": agentFilter(agentID)}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/delete?wait=true", c.collection), body, nil)
}

func agentFilter(agentID int64) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "agent_id",
				"match": map[string]any{"value": agentID},
			},
		},
	}
}

// do issues one JSON request and decodes the response into out when given.
// Any transport or non-2xx failure wraps core.ErrStore.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", core.ErrStore, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", core.ErrStore, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", core.ErrStore, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: %s: %s", core.ErrStore, method, path, resp.Status, bytes.TrimSpace(snippet))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", core.ErrStore, err)
		}
	}
	return nil
}
