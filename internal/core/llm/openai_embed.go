package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

var _ core.DenseEmbedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder produces dense vectors through an OpenAI-compatible
// embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dim    int
}

func NewOpenAIEmbedder(apiKey, baseURL, model string, dim int) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
		dim:    dim,
	}
}

func (e *OpenAIEmbedder) Dimension() int { return e.dim }

// EmbedTexts embeds the whole batch in one request. The response carries one
// vector per input in input order; a mismatch is treated as a provider error.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dim > 0 {
		req.Dimensions = e.dim
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEmbedding, parseAPIError(err))
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", core.ErrEmbedding, len(resp.Data), len(texts))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}
