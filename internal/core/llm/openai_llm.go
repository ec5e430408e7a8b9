package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

var _ core.LLMProvider = (*OpenAILLM)(nil)

// OpenAILLM talks to any OpenAI-compatible chat completion API (DeepSeek in
// production; the base URL is configurable).
type OpenAILLM struct {
	client *openai.Client
	model  string
}

func NewOpenAILLM(apiKey, baseURL, model string) *OpenAILLM {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAILLM{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAILLM) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", parseAPIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseAPIError extracts a readable message from the API error shape.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	return err
}
