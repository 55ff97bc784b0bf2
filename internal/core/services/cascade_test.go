package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facetlayer/flpipeline/internal/adapters/driven/storage/memory"
	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// stubTier is a canned SearchTier.
type stubTier struct {
	name    domain.SearchTierName
	results []domain.SearchResult
	err     error
	called  int
}

func (s *stubTier) Name() domain.SearchTierName { return s.name }

func (s *stubTier) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	s.called++
	return s.results, s.err
}

func TestFallbackChain_FirstAnswerWins(t *testing.T) {
	first := &stubTier{name: domain.TierSemantic}
	second := &stubTier{name: domain.TierStoredLexical, results: []domain.SearchResult{{}}}

	chain := NewFallbackChain(first, second)
	results, err := chain.Search(context.Background(), "query", domain.SearchOptions{})
	require.NoError(t, err)

	assert.Empty(t, results, "an empty answer still stops the chain")
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 0, second.called)
}

func TestFallbackChain_FallsThrough(t *testing.T) {
	first := &stubTier{name: domain.TierSemantic, err: errors.New("embedder down")}
	second := &stubTier{name: domain.TierStoredLexical, results: []domain.SearchResult{
		{Document: domain.Document{Filename: "a.md"}, Tier: domain.TierStoredLexical},
	}}

	results, err := NewFallbackChain(first, second).Search(context.Background(), "query", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.TierStoredLexical, results[0].Tier)
}

func TestFallbackChain_AllFail(t *testing.T) {
	errSemantic := errors.New("embedder down")
	errLexical := errors.New("store locked")

	chain := NewFallbackChain(
		&stubTier{name: domain.TierSemantic, err: errSemantic},
		&stubTier{name: domain.TierStoredLexical, err: errLexical},
	)
	_, err := chain.Search(context.Background(), "query", domain.SearchOptions{})
	require.Error(t, err)

	var cascade *domain.CascadeError
	require.ErrorAs(t, err, &cascade)
	require.Len(t, cascade.Tiers, 2)
	assert.Equal(t, domain.TierSemantic, cascade.Tiers[0].Tier)
	assert.Equal(t, domain.TierStoredLexical, cascade.Tiers[1].Tier)
	assert.ErrorIs(t, err, errSemantic)
	assert.ErrorIs(t, err, errLexical)
}

func TestFallbackChain_Validation(t *testing.T) {
	tier := &stubTier{name: domain.TierSemantic}
	chain := NewFallbackChain(tier)

	_, err := chain.Search(context.Background(), " ", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, tier.called)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = chain.Search(ctx, "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []domain.SearchTierName{domain.TierSemantic}, chain.Tiers())
}

func TestFallbackChain_RealTiers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore(testDims)
	_, err := store.UpsertDocument(ctx, domain.Document{
		Filename: "deploy.md", Title: "Deploying", Content: "how to deploy", ContentHash: "h1",
	})
	require.NoError(t, err)

	embedder := newMockEmbedding(testDims)
	embedder.err = domain.NewProviderError("mock", "embed", errors.New("connection refused"))

	source := &mockDocumentSource{files: map[string]string{
		"ops/deploy.md": "# Deploy Runbook\n\nSteps to deploy.",
		"other.md":      "# Other\n\nunrelated",
	}}
	root := t.TempDir()

	newChain := func(store *failingStore) *FallbackChain {
		return NewFallbackChain(
			NewSemanticTier(NewSearchService(store, embedder)),
			NewStoredLexicalTier(store),
			NewFilesystemLexicalTier(source, root),
		)
	}

	t.Run("stored lexical answers when embedding fails", func(t *testing.T) {
		results, err := newChain(&failingStore{VectorStore: store}).Search(ctx, "deploy", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "deploy.md", results[0].Document.Filename)
		assert.Equal(t, domain.TierStoredLexical, results[0].Tier)
	})

	t.Run("filesystem answers when the store fails too", func(t *testing.T) {
		broken := &failingStore{VectorStore: store, listErr: errors.New("database is locked")}
		results, err := newChain(broken).Search(ctx, "deploy", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "ops/deploy.md", results[0].Document.Filename)
		assert.Equal(t, "Deploy Runbook", results[0].Document.Title)
		assert.Equal(t, domain.TierFilesystemLexical, results[0].Tier)
	})

	t.Run("missing docs root fails the last tier", func(t *testing.T) {
		broken := &failingStore{VectorStore: store, listErr: errors.New("database is locked")}
		chain := NewFallbackChain(
			NewStoredLexicalTier(broken),
			NewFilesystemLexicalTier(source, root+"/missing"),
		)
		_, err := chain.Search(ctx, "deploy", domain.SearchOptions{})
		var cascade *domain.CascadeError
		require.ErrorAs(t, err, &cascade)
		assert.Len(t, cascade.Tiers, 2)
	})
}
