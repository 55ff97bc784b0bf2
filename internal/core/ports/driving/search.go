package driving

import (
	"context"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// SearchService provides document search.
type SearchService interface {
	// Search runs semantic search with hybrid re-ranking.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

// DocumentService provides read access to stored and on-disk documents.
type DocumentService interface {
	// Get returns a stored document by filename.
	Get(ctx context.Context, filename string) (*domain.Document, error)

	// Find resolves a partial name against the docs root and returns the
	// matched relative path and its raw content.
	Find(ctx context.Context, name string) (string, string, error)
}
