package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type completionRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type Option func(*resty.Client)

// WithTimeout caps every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// OpenAI talks to the legacy completions endpoint and the image generation endpoint.
type OpenAI struct {
	client    *resty.Client
	model     string
	maxTokens int
	imageSize string
}

func NewOpenAI(baseURL, apiKey, model string, maxTokens int, imageSize string, opts ...Option) *OpenAI {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("User-Agent", "tweetbot-generator")

	for _, opt := range opts {
		opt(client)
	}

	return &OpenAI{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		imageSize: imageSize,
	}
}

// GenerateText completes prompt and returns the first choice, trimmed.
func (o *OpenAI) GenerateText(ctx context.Context, prompt string) (string, error) {
	var result completionResponse
	var failure apiError

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(completionRequest{Model: o.model, Prompt: prompt, MaxTokens: o.maxTokens}).
		SetResult(&result).
		SetError(&failure).
		Post("/completions")
	if err != nil {
		return "", fmt.Errorf("error calling completions: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("completions returned %s: %s", resp.Status(), failure.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completions returned no choices")
	}

	text := strings.TrimSpace(result.Choices[0].Text)
	if text == "" {
		return "", fmt.Errorf("completions returned empty text")
	}

	return text, nil
}

// GenerateImage requests a single square image and returns its URL.
func (o *OpenAI) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var result imageResponse
	var failure apiError

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(imageRequest{Prompt: prompt, N: 1, Size: o.imageSize}).
		SetResult(&result).
		SetError(&failure).
		Post("/images/generations")
	if err != nil {
		return "", fmt.Errorf("error calling image generation: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("image generation returned %s: %s", resp.Status(), failure.Error.Message)
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no image")
	}

	return result.Data[0].URL, nil
}
