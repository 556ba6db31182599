// Package provider defines the pluggable text-completion boundary. The
// engine is agnostic to which backend implements it; backend-specific
// endpoints, headers and model catalogues live entirely in the adapters.
package provider

import (
	"context"
	"errors"
	"time"
)

// Request is one completion request. Timeout bounds the single call; the
// caller's context still wins if it is cancelled first.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Provider is the text-completion capability.
type Provider interface {
	// Name identifies the backend for logging.
	Name() string
	// Complete returns the raw model text for a request. Errors are either
	// *TransientError or *FatalError.
	Complete(ctx context.Context, req Request) (string, error)
}

// TransientError marks a failure that may resolve on retry: rate limiting,
// temporary unavailability, timeouts.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient provider error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// FatalError marks a failure that will not resolve with retries: bad
// credentials, malformed requests, unknown models.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "provider error: " + e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether an error is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// RetryPolicy bounds how transient failures are retried. The zero value
// performs no retries.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// Backoff returns the delay before the given retry attempt (1-based).
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy retries transient failures up to 2 additional times
// with 600ms × attempt backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 600 * time.Millisecond
		},
	}
}

// Complete runs one completion through the policy. Fatal errors and context
// cancellation return immediately; transient errors are retried within the
// budget, then surfaced.
func (p RetryPolicy) Complete(ctx context.Context, prov Provider, req Request) (string, error) {
	var last error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 && p.Backoff != nil {
			select {
			case <-ctx.Done():
				return "", &TransientError{Err: ctx.Err()}
			case <-time.After(p.Backoff(attempt)):
			}
		}

		text, err := prov.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		if !IsTransient(err) {
			return "", err
		}
		last = err

		select {
		case <-ctx.Done():
			return "", &TransientError{Err: ctx.Err()}
		default:
		}
	}

	return "", last
}
