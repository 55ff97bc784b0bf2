package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/logger"
	"github.com/facetlayer/flpipeline/internal/normalisers/markdown"
)

// SearchTier is one strategy in a FallbackChain.
type SearchTier interface {
	Name() domain.SearchTierName
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

// Ensure FallbackChain implements the interface.
var _ driving.SearchService = (*FallbackChain)(nil)

// FallbackChain tries each tier in order. The first tier that answers wins,
// even with zero results; a failing tier hands over to the next one.
type FallbackChain struct {
	tiers []SearchTier
}

// NewFallbackChain creates a chain over tiers, tried in the given order.
func NewFallbackChain(tiers ...SearchTier) *FallbackChain {
	return &FallbackChain{tiers: tiers}
}

// Tiers returns the tier names in order.
func (c *FallbackChain) Tiers() []domain.SearchTierName {
	names := make([]domain.SearchTierName, len(c.tiers))
	for i, t := range c.tiers {
		names[i] = t.Name()
	}
	return names
}

// Search runs the cascade. When every tier fails the errors are joined in a
// *domain.CascadeError.
func (c *FallbackChain) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}

	var failures []*domain.TierError
	for _, tier := range c.tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := tier.Search(ctx, query, opts)
		if err == nil {
			logger.Debug("Tier %s answered with %d results", tier.Name(), len(results))
			return results, nil
		}

		logger.Warn("Tier %s failed: %v", tier.Name(), err)
		failures = append(failures, &domain.TierError{Tier: tier.Name(), Err: err})
	}

	return nil, &domain.CascadeError{Tiers: failures}
}

// SemanticTier adapts a SearchService to the chain.
type SemanticTier struct {
	searcher driving.SearchService
}

// NewSemanticTier wraps searcher.
func NewSemanticTier(searcher driving.SearchService) *SemanticTier {
	return &SemanticTier{searcher: searcher}
}

// Name identifies the tier.
func (t *SemanticTier) Name() domain.SearchTierName { return domain.TierSemantic }

// Search delegates to the semantic searcher.
func (t *SemanticTier) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return t.searcher.Search(ctx, query, opts)
}

// StoredLexicalTier scores every stored document lexically.
type StoredLexicalTier struct {
	store driven.VectorStore
}

// NewStoredLexicalTier creates a tier over store.
func NewStoredLexicalTier(store driven.VectorStore) *StoredLexicalTier {
	return &StoredLexicalTier{store: store}
}

// Name identifies the tier.
func (t *StoredLexicalTier) Name() domain.SearchTierName { return domain.TierStoredLexical }

// Search ranks the stored documents.
func (t *StoredLexicalTier) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if t.store == nil {
		return nil, fmt.Errorf("no document store")
	}
	docs, err := t.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return RankLexical(query, docs, opts.LimitOr(domain.DefaultLexicalLimit), domain.TierStoredLexical), nil
}

// FilesystemLexicalTier scores the raw markdown files under the docs root.
type FilesystemLexicalTier struct {
	source driven.DocumentSource
	root   string
}

// NewFilesystemLexicalTier creates a tier that scans root.
func NewFilesystemLexicalTier(source driven.DocumentSource, root string) *FilesystemLexicalTier {
	return &FilesystemLexicalTier{source: source, root: root}
}

// Name identifies the tier.
func (t *FilesystemLexicalTier) Name() domain.SearchTierName { return domain.TierFilesystemLexical }

// Search reads every markdown file and ranks them. Unreadable files score on
// their name alone.
func (t *FilesystemLexicalTier) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if _, err := os.Stat(t.root); err != nil {
		return nil, fmt.Errorf("docs root: %w", err)
	}

	files, err := t.source.List(ctx, t.root)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		raw, err := t.source.ReadFile(ctx, f.Path)
		if err != nil {
			logger.Debug("Unreadable %s: %v", f.Path, err)
		}
		content := string(raw)
		docs = append(docs, domain.Document{
			Filename: filepath.ToSlash(f.RelPath),
			Title:    markdown.FirstHeading(content),
			Content:  content,
		})
	}

	return RankLexical(query, docs, opts.LimitOr(domain.DefaultLexicalLimit), domain.TierFilesystemLexical), nil
}
