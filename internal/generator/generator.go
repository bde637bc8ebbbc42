package generator

import (
	"context"
	"fmt"

	"github.com/creatorstation/tweetbot/internal/config"
)

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type ImageGenerator interface {
	// GenerateImage returns a short-lived URL of the generated image.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type Generator interface {
	TextGenerator
	ImageGenerator
}

// Mixed pairs a text backend with a different image backend.
type Mixed struct {
	TextGenerator
	ImageGenerator
}

// New builds the generator selected by cfg.Provider. Images always come from the
// OpenAI endpoint, only the text backend is switchable.
func New(ctx context.Context, cfg config.Generation, opts ...Option) (Generator, error) {
	openai := NewOpenAI(cfg.OpenAIURL, cfg.OpenAIKey, cfg.TextModel, cfg.MaxTokens, cfg.ImageSize, opts...)

	switch cfg.Provider {
	case "", config.ProviderOpenAI:
		return openai, nil
	case config.ProviderGemini:
		gemini, err := NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return Mixed{TextGenerator: gemini, ImageGenerator: openai}, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}
