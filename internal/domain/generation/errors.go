package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the request carries no text.
	ErrEmptyInput = errors.New("input text is required")
	// ErrExhausted is returned when every configured backend failed.
	ErrExhausted = errors.New("all generation backends exhausted")
)

// ProviderError wraps a single backend failure; it advances the fallback
// chain and is never returned to the caller directly.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
