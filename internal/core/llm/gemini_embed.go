package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

var _ core.DenseEmbedder = (*GeminiEmbedder)(nil)

// GeminiEmbedder is the alternative dense provider, selected with
// EMBED_PROVIDER=gemini.
type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
	dim       int
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, dim int) (*GeminiEmbedder, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &GeminiEmbedder{client: cl, modelName: modelName, dim: dim}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiEmbedder) Dimension() int { return g.dim }

// EmbedTexts batches all texts in one request via EmbeddingBatch.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := g.client.EmbeddingModel(g.modelName)

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini batch embed: %v", core.ErrEmbedding, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", core.ErrEmbedding, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		out = append(out, e.Values)
	}
	return out, nil
}
