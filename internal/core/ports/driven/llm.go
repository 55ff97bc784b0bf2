package driven

import "context"

// LLMService is the capability interface for text generation providers.
// Providers are chosen from configuration at startup.
//
// Implementations include:
//   - Ollama (local inference)
//   - Anthropic (Claude)
//   - OpenAI
type LLMService interface {
	// Generate produces a completion for prompt.
	// Failures are returned as *domain.ProviderError.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error)

	// ProviderName is a human-readable provider name, e.g. "Ollama".
	ProviderName() string

	// IsAvailable reports whether the provider can currently serve requests.
	IsAvailable(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Model overrides the provider's configured model when set.
	Model string

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
}

// GenerateResult is a completion plus the metadata the provider reported.
type GenerateResult struct {
	Text string

	// Model is the model that served the request.
	Model string

	// InputTokens and OutputTokens are zero when the provider does not report them.
	InputTokens  int
	OutputTokens int
}
