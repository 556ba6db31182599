package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider adapts the Google Gen AI SDK to the Provider interface.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a Gemini-backed provider. The API key is taken
// from GEMINI_API_KEY or GOOGLE_API_KEY.
func NewGeminiProvider(ctx context.Context) (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required\nGet one at: https://aistudio.google.com/api-keys")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// Name identifies the backend for logging.
func (g *GeminiProvider) Name() string { return "gemini" }

// Complete sends one generation request and returns the raw response text.
func (g *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &TransientError{Err: fmt.Errorf("empty response from model")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// classifyGeminiError sorts SDK errors into the transient/fatal taxonomy.
// The SDK does not expose a stable error type across backends, so the
// classification keys on status markers in the message.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, marker := range []string{
		"429", "RESOURCE_EXHAUSTED",
		"503", "UNAVAILABLE", "overloaded",
		"500", "INTERNAL",
		"deadline exceeded", "context deadline",
	} {
		if strings.Contains(msg, marker) {
			return &TransientError{Err: err}
		}
	}
	return &FatalError{Err: err}
}
