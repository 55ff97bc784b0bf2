package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured or not reachable.
	// Hint selection is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAmbiguous indicates a lookup matched more than one entity.
	ErrAmbiguous = errors.New("ambiguous match")
)

// ProviderError reports a failed embedding or LLM call.
// Providers are never retried internally.
type ProviderError struct {
	// Provider is the adapter name, e.g. "ollama".
	Provider string

	// Op is the failed operation, e.g. "embed" or "generate".
	Op string

	Err error
}

// NewProviderError wraps err as a ProviderError.
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SelectionParseError reports an LLM response that is not a JSON array of names.
type SelectionParseError struct {
	// Response is the raw model output.
	Response string

	Err error
}

func (e *SelectionParseError) Error() string {
	snippet := e.Response
	if len(snippet) > 120 {
		snippet = snippet[:120] + "..."
	}
	if e.Err == nil {
		return fmt.Sprintf("could not parse hint selection from response %q", snippet)
	}
	return fmt.Sprintf("could not parse hint selection from response %q: %v", snippet, e.Err)
}

func (e *SelectionParseError) Unwrap() error {
	return e.Err
}

// TierError reports that one search tier could not answer.
type TierError struct {
	Tier SearchTierName
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s search: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error {
	return e.Err
}

// CascadeError is returned when every search tier failed.
type CascadeError struct {
	Tiers []*TierError
}

func (e *CascadeError) Error() string {
	parts := make([]string, len(e.Tiers))
	for i, t := range e.Tiers {
		parts[i] = t.Error()
	}
	return "all search strategies failed: " + strings.Join(parts, "; ")
}

func (e *CascadeError) Unwrap() []error {
	errs := make([]error, len(e.Tiers))
	for i, t := range e.Tiers {
		errs[i] = t
	}
	return errs
}

// IsProviderError reports whether err wraps a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
