package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/logger"
	"github.com/facetlayer/flpipeline/internal/normalisers/markdown"
)

// overFetchFactor leaves room for similarity filtering and re-ranking.
const overFetchFactor = 2

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs semantic search with hybrid re-ranking.
type SearchService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a search service.
// embedder may be nil, in which case Search reports ErrEmbeddingUnavailable.
func NewSearchService(store driven.VectorStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		store:    store,
		embedder: embedder,
	}
}

// Search embeds query, fetches twice the limit in neighbours, drops hits
// below the similarity floor and orders the rest by relevance.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Semantic Search")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	limit := opts.LimitOr(domain.DefaultSearchLimit)
	minSimilarity := opts.MinSimilarityOrDefault()
	logger.Debug("Limit: %d, min similarity: %.2f", limit, minSimilarity)

	start := time.Now()
	vector, err := s.embedder.Embed(ctx, markdown.Preprocess(query))
	if err != nil {
		return nil, err
	}
	logger.Timing("query embedding", start)

	neighbors, err := s.store.NearestNeighbors(ctx, vector, limit*overFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbours: %w", err)
	}
	logger.Debug("Store returned %d neighbours", len(neighbors))

	results := make([]domain.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		doc, err := s.store.GetDocument(ctx, n.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			logger.Debug("Skipping neighbour %d: document missing", n.DocumentID)
			continue
		}

		similarity := n.Similarity()
		if similarity < minSimilarity {
			continue
		}

		results = append(results, domain.SearchResult{
			Document:   *doc,
			Similarity: similarity,
			Relevance:  RelevanceScore(query, *doc, similarity),
			Tier:       domain.TierSemantic,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.Document.Filename < b.Document.Filename
	})

	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Semantic search returned %d results", len(results))
	return results, nil
}
