package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini generates text with Google's Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewGemini(ctx context.Context, apiKey, model string, maxTokens int) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
	}, nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: g.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned no text")
	}

	return text, nil
}
