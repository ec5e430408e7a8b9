package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

const answerTemperature = 0.3

// AnswerService turns retrieved context into a final answer with the agent's
// own system prompt. The bot layer owns how errors are shown to the user;
// this service just reports them.
type AnswerService struct {
	llm    core.LLMProvider
	logger *zap.Logger
}

func NewAnswerService(llm core.LLMProvider, logger *zap.Logger) *AnswerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerService{llm: llm, logger: logger}
}

// Answer generates the reply for a question given the retrieved hits.
// systemPrompt is the agent's persona, configured per agent by its owner.
func (s *AnswerService) Answer(ctx context.Context, question string, hits []models.RetrievalHit, systemPrompt string) (string, error) {
	userPrompt := fmt.Sprintf("KNOWLEDGE BASE CONTEXT:\n%s\n\nUSER QUESTION: %s", BuildContext(hits), question)

	answer, err := s.llm.Generate(ctx, systemPrompt, userPrompt, answerTemperature)
	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// BuildContext renders the hits into the prompt block, one source-labelled
// section per hit.
func BuildContext(hits []models.RetrievalHit) string {
	if len(hits) == 0 {
		return "No information found in the knowledge base."
	}
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("Source: %s\nText: %s", h.Source, h.Text)
	}
	return strings.Join(parts, "\n\n---\n\n")
}
