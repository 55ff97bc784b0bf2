package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, document search degrades to lexical scoring.
//
// Implementations must return failures as *domain.ProviderError and must not retry.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
