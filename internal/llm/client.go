package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nonthasen/campusdesk/internal/reliability"
)

// Generator produces a text completion from a named model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API through the official SDK.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Generate sends a single-turn prompt and returns the response text. One
// retry is attempted after a transient API error.
func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			backoff := reliability.ExponentialBackoff(attempt, 500*time.Millisecond, 2*time.Second)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = err
			if retryableGenerateError(err) {
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		return resp.Text(), nil
	}
	return "", fmt.Errorf("generate content: %w", lastErr)
}

func retryableGenerateError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return reliability.IsRetryableHTTPStatus(apiErr.Code)
	}
	return false
}
