package driven

import (
	"context"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// VectorStore persists documents together with a single embedding per document
// and answers nearest-neighbour queries over those embeddings.
//
// All mutating operations are durable on return.
type VectorStore interface {
	// UpsertDocument inserts a new document or updates an existing one by filename.
	// When the stored hash equals doc.ContentHash the existing id is returned and
	// nothing is written. When the hash differs the row is updated in place and its
	// embedding is deleted; the caller is responsible for re-embedding.
	UpsertDocument(ctx context.Context, doc domain.Document) (int64, error)

	// UpsertEmbedding replaces the embedding of documentID.
	// Fails when documentID does not reference an existing document.
	UpsertEmbedding(ctx context.Context, documentID int64, vector []float32) error

	// HasEmbedding reports whether documentID currently has an embedding.
	HasEmbedding(ctx context.Context, documentID int64) (bool, error)

	// NearestNeighbors returns up to limit hits ordered by ascending cosine distance.
	NearestNeighbors(ctx context.Context, query []float32, limit int) ([]domain.Neighbor, error)

	// GetDocument returns nil, nil when id is unknown.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// GetDocumentByFilename returns nil, nil when filename is unknown.
	GetDocumentByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// DeleteDocument removes the document and its embedding. No-op when absent.
	DeleteDocument(ctx context.Context, filename string) error

	// ListDocuments returns every document ordered by filename.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Stats returns document and embedding counts.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Dimensions is the vector size the store accepts.
	Dimensions() int

	// Close releases resources.
	Close() error
}
