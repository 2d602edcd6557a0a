package pbi18n

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retrying value translations.
type RetryConfig struct {
	MaxRetries int           // Attempts after the first one
	BaseDelay  time.Duration // Delay before the first retry, doubled each time
	MaxDelay   time.Duration // Upper bound for a single delay
}

// DefaultRetryConfig retries three times, waiting 1s, 2s and 4s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the delay before retry number attempt (0-based).
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := c.BaseDelay << attempt
	if delay > c.MaxDelay || delay <= 0 {
		return c.MaxDelay
	}
	return delay
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry calls fn until it succeeds, returns an error IsRetryable
// rejects, or cfg.MaxRetries retries are used up.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(cfg.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// IsRetryable reports whether err is a *ProviderError marked Retryable.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryableTranslator retries a ValueTranslator on transient failures.
type RetryableTranslator struct {
	next   ValueTranslator
	config RetryConfig
}

// NewRetryableTranslator wraps next with exponential backoff.
func NewRetryableTranslator(next ValueTranslator, cfg RetryConfig) *RetryableTranslator {
	return &RetryableTranslator{
		next:   next,
		config: cfg,
	}
}

// Translate implements ValueTranslator.
func (t *RetryableTranslator) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return WithRetry(ctx, t.config, func() ([]string, error) {
		return t.next.Translate(ctx, req)
	})
}

var _ ValueTranslator = (*RetryableTranslator)(nil)
