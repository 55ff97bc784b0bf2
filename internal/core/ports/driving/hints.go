package driving

import (
	"context"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// HintService lists hint files and selects the relevant ones for a task.
type HintService interface {
	// List returns all hint files from the configured locations.
	List(ctx context.Context) ([]domain.HintInfo, error)

	// Get returns the metadata and body of the hint called name.
	Get(ctx context.Context, name string) (domain.HintInfo, string, error)

	// Select asks the LLM which hints apply to text.
	Select(ctx context.Context, text string, opts SelectOptions) (*domain.FoundHints, error)

	// ProviderName names the LLM provider used for selection.
	ProviderName() string

	// IsAvailable reports whether the LLM provider is reachable.
	IsAvailable(ctx context.Context) bool
}

// SelectOptions configures hint selection.
type SelectOptions struct {
	// MaxHints caps the result. Zero means domain.DefaultMaxHints.
	MaxHints int

	// Temperature for the selection call. Nil means domain.DefaultHintTemperature.
	Temperature *float64

	// Model overrides the provider model.
	Model string
}
