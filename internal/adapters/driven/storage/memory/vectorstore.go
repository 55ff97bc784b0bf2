package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// It mirrors the semantics of the SQLite store.
type VectorStore struct {
	mu         sync.RWMutex
	dims       int
	nextID     int64
	documents  map[int64]domain.Document
	byFilename map[string]int64
	embeddings map[int64][]float32
}

// NewVectorStore creates an empty store accepting vectors of size dims.
func NewVectorStore(dims int) *VectorStore {
	if dims <= 0 {
		dims = domain.DefaultEmbeddingDims
	}
	return &VectorStore{
		dims:       dims,
		documents:  make(map[int64]domain.Document),
		byFilename: make(map[string]int64),
		embeddings: make(map[int64][]float32),
	}
}

// UpsertDocument inserts or updates a document by filename.
func (s *VectorStore) UpsertDocument(_ context.Context, doc domain.Document) (int64, error) {
	if doc.Filename == "" {
		return 0, fmt.Errorf("%w: document filename is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byFilename[doc.Filename]; ok {
		existing := s.documents[id]
		if existing.ContentHash != "" && existing.ContentHash == doc.ContentHash {
			return id, nil
		}
		existing.Content = doc.Content
		existing.Title = doc.Title
		existing.ContentHash = doc.ContentHash
		s.documents[id] = existing
		delete(s.embeddings, id)
		return id, nil
	}

	s.nextID++
	doc.ID = s.nextID
	doc.CreatedAt = time.Now().UTC()
	s.documents[doc.ID] = doc
	s.byFilename[doc.Filename] = doc.ID
	return doc.ID, nil
}

// UpsertEmbedding replaces the embedding of documentID.
func (s *VectorStore) UpsertEmbedding(_ context.Context, documentID int64, vector []float32) error {
	if len(vector) != s.dims {
		return fmt.Errorf("%w: embedding has %d dimensions, store expects %d",
			domain.ErrInvalidInput, len(vector), s.dims)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[documentID]; !ok {
		return fmt.Errorf("document %d: %w", documentID, domain.ErrNotFound)
	}
	s.embeddings[documentID] = append([]float32(nil), vector...)
	return nil
}

// HasEmbedding reports whether documentID has an embedding.
func (s *VectorStore) HasEmbedding(_ context.Context, documentID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.embeddings[documentID]
	return ok, nil
}

// NearestNeighbors returns up to limit hits by ascending cosine distance.
func (s *VectorStore) NearestNeighbors(_ context.Context, query []float32, limit int) ([]domain.Neighbor, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			domain.ErrInvalidInput, len(query), s.dims)
	}
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.Neighbor, 0, len(s.embeddings))
	for id, vec := range s.embeddings {
		hits = append(hits, domain.Neighbor{DocumentID: id, Distance: domain.CosineDistance(query, vec)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// GetDocument returns nil, nil when id is unknown.
func (s *VectorStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// GetDocumentByFilename returns nil, nil when filename is unknown.
func (s *VectorStore) GetDocumentByFilename(_ context.Context, filename string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byFilename[filename]
	if !ok {
		return nil, nil
	}
	doc := s.documents[id]
	return &doc, nil
}

// DeleteDocument removes a document and its embedding.
func (s *VectorStore) DeleteDocument(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byFilename[filename]
	if !ok {
		return nil
	}
	delete(s.byFilename, filename)
	delete(s.documents, id)
	delete(s.embeddings, id)
	return nil
}

// ListDocuments returns all documents ordered by filename.
func (s *VectorStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

// Stats returns document and embedding counts.
func (s *VectorStore) Stats(_ context.Context) (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStats{
		DocumentCount:  len(s.documents),
		EmbeddingCount: len(s.embeddings),
	}, nil
}

// Dimensions returns the accepted vector size.
func (s *VectorStore) Dimensions() int {
	return s.dims
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
