package pbi18n

import (
	"fmt"

	"github.com/blenderbox/pbi18n/pocketbase"
)

// ConfigError reports a missing or inconsistent backend configuration.
type ConfigError struct {
	Field   string // Option or call that is misconfigured
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("pbi18n: config error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("pbi18n: config error: %s", e.Message)
}

// RemoteServiceError is any failure reported by the PocketBase client.
// Read and Create return it unmodified.
type RemoteServiceError = pocketbase.Error

// ErrAlreadyExists matches remote errors caused by a collection or unique
// value that already exists.
var ErrAlreadyExists = pocketbase.ErrAlreadyExists

// ProviderError indicates a value translator failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the translator returned a different number of values than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
