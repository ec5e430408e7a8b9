package core

import (
	"context"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

// DenseEmbedder produces fixed-length semantic vectors. Implementations must
// be deterministic for the same text and model version, and must return one
// vector per input text in input order.
type DenseEmbedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// SparseEmbedder produces lexical index/value vectors over a fixed
// vocabulary. Pure function of text: no state accumulated across calls.
type SparseEmbedder interface {
	EmbedSparse(text string) models.SparseVector
}

// LLMProvider is a chat-completion call: system instruction, user message,
// sampling temperature, generated text back.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}
