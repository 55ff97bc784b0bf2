package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

func TestVectorStore_UpsertDocument(t *testing.T) {
	store := NewVectorStore(2)
	ctx := context.Background()

	id, err := store.UpsertDocument(ctx, domain.Document{Filename: "a.md", Content: "v1", ContentHash: "h1"})
	require.NoError(t, err)
	require.NoError(t, store.UpsertEmbedding(ctx, id, []float32{1, 0}))

	// Same hash leaves the row and its embedding alone.
	same, err := store.UpsertDocument(ctx, domain.Document{Filename: "a.md", Content: "ignored", ContentHash: "h1"})
	require.NoError(t, err)
	assert.Equal(t, id, same)
	has, _ := store.HasEmbedding(ctx, id)
	assert.True(t, has)

	// A new hash updates in place and drops the embedding.
	changed, err := store.UpsertDocument(ctx, domain.Document{Filename: "a.md", Content: "v2", ContentHash: "h2"})
	require.NoError(t, err)
	assert.Equal(t, id, changed)
	has, _ = store.HasEmbedding(ctx, id)
	assert.False(t, has)

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Content)
}

func TestVectorStore_Validation(t *testing.T) {
	store := NewVectorStore(2)
	ctx := context.Background()

	_, err := store.UpsertDocument(ctx, domain.Document{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, store.UpsertEmbedding(ctx, 7, []float32{1, 0}), domain.ErrNotFound)

	id, _ := store.UpsertDocument(ctx, domain.Document{Filename: "a.md"})
	assert.ErrorIs(t, store.UpsertEmbedding(ctx, id, []float32{1}), domain.ErrInvalidInput)

	_, err = store.NearestNeighbors(ctx, []float32{1, 0, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_NearestNeighbors(t *testing.T) {
	store := NewVectorStore(2)
	ctx := context.Background()

	a, _ := store.UpsertDocument(ctx, domain.Document{Filename: "a.md"})
	b, _ := store.UpsertDocument(ctx, domain.Document{Filename: "b.md"})
	c, _ := store.UpsertDocument(ctx, domain.Document{Filename: "c.md"})
	require.NoError(t, store.UpsertEmbedding(ctx, a, []float32{0, 1}))
	require.NoError(t, store.UpsertEmbedding(ctx, b, []float32{1, 0}))
	require.NoError(t, store.UpsertEmbedding(ctx, c, []float32{1, 0}))

	hits, err := store.NearestNeighbors(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, b, hits[0].DocumentID)
	assert.Equal(t, c, hits[1].DocumentID)
}

func TestVectorStore_DeleteAndList(t *testing.T) {
	store := NewVectorStore(2)
	ctx := context.Background()

	for _, name := range []string{"c.md", "a.md", "b.md"} {
		_, err := store.UpsertDocument(ctx, domain.Document{Filename: name})
		require.NoError(t, err)
	}
	require.NoError(t, store.DeleteDocument(ctx, "b.md"))
	require.NoError(t, store.DeleteDocument(ctx, "missing.md"))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Filename)
	assert.Equal(t, "c.md", docs[1].Filename)

	doc, err := store.GetDocumentByFilename(ctx, "b.md")
	assert.NoError(t, err)
	assert.Nil(t, doc)

	stats, _ := store.Stats(ctx)
	assert.Equal(t, domain.StoreStats{DocumentCount: 2}, stats)
}

func TestVectorStore_ConcurrentAccess(t *testing.T) {
	store := NewVectorStore(2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.UpsertDocument(ctx, domain.Document{Filename: string(rune('a'+i)) + ".md"})
			if err == nil {
				_ = store.UpsertEmbedding(ctx, id, []float32{float32(i), 1})
			}
			_, _ = store.NearestNeighbors(ctx, []float32{1, 1}, 5)
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.DocumentCount)
	assert.Equal(t, 20, stats.EmbeddingCount)
}
