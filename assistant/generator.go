//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=../mocks/mock_generator.go -package=mocks
package assistant

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Generator turns a question into an answer.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// GeminiGenerator answers with Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, question string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(question), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
