// Package llm calls the external text-generation service. The call is a
// single blocking request with no internal retry; any failure is reported to
// the caller, which degrades to a fixed fallback narrative instead of
// aborting the pipeline.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// FallbackNarrative replaces the generated feedback when the service call
// fails, so document rendering can still proceed with partial content.
const FallbackNarrative = "Failed to generate feedback due to API error."

// Generator produces a narrative from a rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new generation client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Generate submits the prompt and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generation API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateOrFallback runs Generate and substitutes the fallback narrative on
// any error.
func GenerateOrFallback(ctx context.Context, g Generator, prompt string) string {
	narrative, err := g.Generate(ctx, prompt)
	if err != nil {
		slog.Error("feedback generation failed, using fallback narrative", "error", err)
		return FallbackNarrative
	}
	return narrative
}
