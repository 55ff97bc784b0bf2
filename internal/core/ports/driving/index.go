package driving

import (
	"context"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// IndexService keeps the vector store in sync with a docs directory.
type IndexService interface {
	// IndexDocuments indexes every markdown file under root.
	IndexDocuments(ctx context.Context, root string, opts IndexOptions) (domain.IndexReport, error)

	// IndexDocument indexes a single file stored under relPath.
	IndexDocument(ctx context.Context, path, relPath string) (domain.IndexOutcome, error)

	// Watch re-indexes files under root as they change until ctx is cancelled.
	// onEvent is called after every handled change.
	Watch(ctx context.Context, root string, onEvent func(WatchEvent)) error

	// Stats returns store counts.
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// IndexOptions configures a batch indexing run.
type IndexOptions struct {
	// Prune deletes stored documents whose file no longer exists.
	Prune bool
}

// WatchEvent reports how a watched change was handled.
type WatchEvent struct {
	RelPath string
	Outcome domain.IndexOutcome
	Err     error
}
