package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		URL:        server.URL,
		APIKey:     "test-key",
		Collection: "agent_documents",
		DenseDim:   4,
	})
}

func TestPointIDDeterministic(t *testing.T) {
	assert.Equal(t, PointID(7, 0), PointID(7, 0))
	assert.NotEqual(t, PointID(7, 0), PointID(7, 1))
	assert.NotEqual(t, PointID(7, 0), PointID(8, 0))
	// A raw "docID_index" concatenation could collide (1_23 vs 12_3);
	// the UUID derivation must not.
	assert.NotEqual(t, PointID(1, 23), PointID(12, 3))
}

func TestUpsertSendsAtomicBatch(t *testing.T) {
	var captured struct {
		Points []struct {
			ID     string `json:"id"`
			Vector struct {
				Dense  []float32 `json:"dense"`
				Sparse struct {
					Indices []uint32  `json:"indices"`
					Values  []float32 `json:"values"`
				} `json:"sparse-text"`
			} `json:"vector"`
			Payload models.Payload `json:"payload"`
		} `json:"points"`
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/agent_documents/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"), "upsert must wait for the whole batch")
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"status":"ok"}`))
	})

	records := []models.VectorRecord{
		{
			ID:     PointID(11, 0),
			Dense:  []float32{0.1, 0.2, 0.3, 0.4},
			Sparse: models.SparseVector{Indices: []uint32{3, 9}, Values: []float32{0.5, 0.5}},
			Payload: models.Payload{
				AgentID: 42, DocumentID: 11, Text: "first chunk", Source: "notes.pdf",
			},
		},
		{
			ID:     PointID(11, 1),
			Dense:  []float32{0.4, 0.3, 0.2, 0.1},
			Sparse: models.SparseVector{Indices: []uint32{5}, Values: []float32{1}},
			Payload: models.Payload{
				AgentID: 42, DocumentID: 11, Text: "second chunk", Source: "notes.pdf",
			},
		},
	}
	require.NoError(t, c.Upsert(context.Background(), records))

	require.Len(t, captured.Points, 2)
	assert.Equal(t, PointID(11, 0), captured.Points[0].ID)
	assert.Equal(t, int64(42), captured.Points[0].Payload.AgentID)
	assert.Equal(t, []uint32{3, 9}, captured.Points[0].Vector.Sparse.Indices)
	assert.Equal(t, "second chunk", captured.Points[1].Payload.Text)
}

func TestUpsertSerializesEmptySparseAsArrays(t *testing.T) {
	// A chunk with no usable tokens embeds to an empty sparse vector; the
	// wire body must carry empty arrays, never null, or Qdrant rejects the
	// whole batch.
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(raw)
		w.Write([]byte(`{"status":"ok"}`))
	})

	records := []models.VectorRecord{
		{
			ID:      PointID(13, 0),
			Dense:   []float32{0.1, 0.2, 0.3, 0.4},
			Sparse:  models.SparseVector{},
			Payload: models.Payload{AgentID: 42, DocumentID: 13, Text: "---", Source: "notes.md"},
		},
	}
	require.NoError(t, c.Upsert(context.Background(), records))

	assert.NotContains(t, body, `"indices":null`)
	assert.NotContains(t, body, `"values":null`)
	assert.Contains(t, body, `"indices":[]`)
	assert.Contains(t, body, `"values":[]`)
}

func TestSearchCarriesAgentFilterOnBothBranches(t *testing.T) {
	type searchReq struct {
		Filter struct {
			Must []struct {
				Key   string `json:"key"`
				Match struct {
					Value int64 `json:"value"`
				} `json:"match"`
			} `json:"must"`
		} `json:"filter"`
		WithPayload bool `json:"with_payload"`
		Limit       int  `json:"limit"`
	}
	var requests []searchReq

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/agent_documents/points/search", r.URL.Path)
		var req searchReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)
		w.Write([]byte(`{"result":[{"id":"p1","score":0.9,"payload":{"agent_id":42,"document_id":1,"text":"t","source":"s"}}]}`))
	})

	ctx := context.Background()
	_, err := c.SearchDense(ctx, 42, []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	_, err = c.SearchSparse(ctx, 42, models.SparseVector{Indices: []uint32{1}, Values: []float32{1}}, 5)
	require.NoError(t, err)

	require.Len(t, requests, 2)
	for i, req := range requests {
		require.Len(t, req.Filter.Must, 1, "request %d missing agent filter", i)
		assert.Equal(t, "agent_id", req.Filter.Must[0].Key)
		assert.Equal(t, int64(42), req.Filter.Must[0].Match.Value)
		assert.True(t, req.WithPayload)
		assert.Equal(t, 5, req.Limit)
	}
}

func TestSearchDecodesHits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[
			{"id":"p1","score":0.91,"payload":{"agent_id":42,"document_id":3,"text":"alpha","source":"a.pdf"}},
			{"id":"p2","score":0.72,"payload":{"agent_id":42,"document_id":3,"text":"beta","source":"a.pdf"}}
		]}`))
	})

	hits, err := c.SearchDense(context.Background(), 42, []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "p1", hits[0].ID)
	assert.InDelta(t, 0.91, float64(hits[0].Score), 1e-6)
	assert.Equal(t, "alpha", hits[0].Payload.Text)
	assert.Equal(t, int64(42), hits[1].Payload.AgentID)
}

func TestDeleteByAgentFilters(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/agent_documents/points/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"status":"ok"}`))
	})

	require.NoError(t, c.DeleteByAgent(context.Background(), 42))
	filter := body["filter"].(map[string]any)
	must := filter["must"].([]any)
	require.Len(t, must, 1)
	cond := must[0].(map[string]any)
	assert.Equal(t, "agent_id", cond["key"])
}

func TestStoreErrorsWrapSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"error":"wrong input: point id rejected"}}`, http.StatusBadGateway)
	})

	err := c.Upsert(context.Background(), []models.VectorRecord{{ID: PointID(1, 0)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrStore))
	assert.Contains(t, err.Error(), "point id rejected", "the response body detail must survive into the error")

	_, err = c.SearchDense(context.Background(), 1, []float32{1}, 5)
	assert.True(t, errors.Is(err, core.ErrStore))
}

func TestEnsureCollectionSchema(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/agent_documents", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"status":"ok"}`))
	})

	require.NoError(t, c.EnsureCollection(context.Background()))
	vectors := body["vectors"].(map[string]any)
	dense := vectors["dense"].(map[string]any)
	assert.Equal(t, float64(4), dense["size"])
	assert.Equal(t, "Cosine", dense["distance"])
	_, hasSparse := body["sparse_vectors"].(map[string]any)["sparse-text"]
	assert.True(t, hasSparse)
}
