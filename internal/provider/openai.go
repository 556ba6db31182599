package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider calls any OpenAI-compatible chat-completions endpoint
// (OpenAI, Groq, local gateways). One adapter covers all of them; only the
// base URL and key differ.
type OpenAIProvider struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// NewOpenAIProvider creates an adapter for an OpenAI-compatible backend.
// Empty arguments fall back to WEBTINT_OPENAI_KEY and WEBTINT_OPENAI_URL.
func NewOpenAIProvider(apiKey, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("WEBTINT_OPENAI_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("WEBTINT_OPENAI_KEY environment variable is required")
	}
	if baseURL == "" {
		baseURL = os.Getenv("WEBTINT_OPENAI_URL")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAIProvider{
		http:    &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

// Name identifies the backend for logging.
func (o *OpenAIProvider) Name() string { return "openai-compatible" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and returns the raw text.
func (o *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &FatalError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", &FatalError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.http.Do(httpReq)
	if err != nil {
		// Network failures and timeouts are worth retrying.
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("unexpected status %s: %s", resp.Status, string(snippet))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &TransientError{Err: err}
		}
		return "", &FatalError{Err: err}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransientError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &TransientError{Err: fmt.Errorf("no choices in response")}
	}

	return out.Choices[0].Message.Content, nil
}
