package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeProvider scripts a sequence of outcomes, one per call.
type fakeProvider struct {
	calls   int
	outcome func(call int) (string, error)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ Request) (string, error) {
	f.calls++
	return f.outcome(f.calls)
}

func noBackoff() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		Backoff:    func(int) time.Duration { return 0 },
	}
}

func TestRetryPolicySucceedsWithinBudget(t *testing.T) {
	// Fails transiently twice, succeeds on the third call: within a budget
	// of 2 retries this must succeed with exactly 3 calls.
	fake := &fakeProvider{outcome: func(call int) (string, error) {
		if call < 3 {
			return "", &TransientError{Err: fmt.Errorf("rate limited")}
		}
		return "ok", nil
	}}

	text, err := noBackoff().Complete(context.Background(), fake, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q, want %q", text, "ok")
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3", fake.calls)
	}
}

func TestRetryPolicyExhaustsBudget(t *testing.T) {
	fake := &fakeProvider{outcome: func(int) (string, error) {
		return "", &TransientError{Err: fmt.Errorf("still rate limited")}
	}}

	_, err := noBackoff().Complete(context.Background(), fake, Request{})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !IsTransient(err) {
		t.Errorf("exhausted error should remain transient: %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3 (1 initial + 2 retries)", fake.calls)
	}
}

func TestRetryPolicyFatalStopsImmediately(t *testing.T) {
	fake := &fakeProvider{outcome: func(int) (string, error) {
		return "", &FatalError{Err: fmt.Errorf("bad api key")}
	}}

	_, err := noBackoff().Complete(context.Background(), fake, Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsTransient(err) {
		t.Errorf("fatal error misclassified as transient: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on fatal errors)", fake.calls)
	}
}

func TestRetryPolicyRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := &fakeProvider{outcome: func(int) (string, error) {
		cancel()
		return "", &TransientError{Err: fmt.Errorf("transient")}
	}}

	_, err := noBackoff().Complete(ctx, fake, Request{})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1 (cancellation stops retries)", fake.calls)
	}
}

func TestDefaultRetryPolicyBackoff(t *testing.T) {
	policy := DefaultRetryPolicy()
	if policy.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", policy.MaxRetries)
	}
	for attempt, want := range map[int]time.Duration{
		1: 600 * time.Millisecond,
		2: 1200 * time.Millisecond,
	} {
		if got := policy.Backoff(attempt); got != want {
			t.Errorf("Backoff(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestErrorUnwrapping(t *testing.T) {
	inner := fmt.Errorf("boom")
	var err error = &TransientError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("TransientError should unwrap to inner error")
	}
	err = &FatalError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("FatalError should unwrap to inner error")
	}
}

func TestOpenAIProviderStatusClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantTransient bool
		wantFatal     bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: "{}", wantTransient: true},
		{name: "unavailable", status: http.StatusServiceUnavailable, body: "{}", wantTransient: true},
		{name: "auth failure", status: http.StatusUnauthorized, body: "{}", wantFatal: true},
		{name: "bad request", status: http.StatusBadRequest, body: "{}", wantFatal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			prov := &OpenAIProvider{
				http:    srv.Client(),
				apiKey:  "test-key",
				baseURL: srv.URL,
			}

			_, err := prov.Complete(context.Background(), Request{Model: "test"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantTransient && !IsTransient(err) {
				t.Errorf("expected transient error, got %v", err)
			}
			if tt.wantFatal && IsTransient(err) {
				t.Errorf("expected fatal error, got transient: %v", err)
			}
		})
	}
}

func TestOpenAIProviderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"mappings\":[]}"}}]}`)
	}))
	defer srv.Close()

	prov := &OpenAIProvider{http: srv.Client(), apiKey: "test-key", baseURL: srv.URL}
	text, err := prov.Complete(context.Background(), Request{Model: "test", System: "sys", User: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"mappings":[]}` {
		t.Errorf("text = %q", text)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
	}{
		{name: "rate limit", err: fmt.Errorf("googleapi: Error 429: RESOURCE_EXHAUSTED"), wantTransient: true},
		{name: "unavailable", err: fmt.Errorf("rpc error: code = 503 desc = UNAVAILABLE"), wantTransient: true},
		{name: "auth", err: fmt.Errorf("API key not valid"), wantTransient: false},
		{name: "unknown model", err: fmt.Errorf("model not found"), wantTransient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyGeminiError(tt.err)
			if IsTransient(got) != tt.wantTransient {
				t.Errorf("classifyGeminiError(%v) transient = %v, want %v", tt.err, IsTransient(got), tt.wantTransient)
			}
		})
	}
}
