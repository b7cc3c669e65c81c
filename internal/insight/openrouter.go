package insight

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultBaseURL points the OpenAI-compatible client at OpenRouter
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// DefaultModel is the model used when none is configured
const DefaultModel = "google/gemini-2.0-flash-thinking-001"

const (
	maxTokens   = 2000
	temperature = 0.7
)

// OpenRouterGenerator generates analysis text through OpenRouter's
// OpenAI-compatible chat completions API. API keys are caller-supplied per
// request, so a fresh client is built per call.
type OpenRouterGenerator struct {
	baseURL string
}

// NewOpenRouterGenerator creates a generator for the given base URL; empty
// uses the OpenRouter default
func NewOpenRouterGenerator(baseURL string) *OpenRouterGenerator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenRouterGenerator{baseURL: baseURL}
}

// Generate performs one chat completion call
func (g *OpenRouterGenerator) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(g.baseURL),
	)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
