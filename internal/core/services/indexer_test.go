package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facetlayer/flpipeline/internal/adapters/driven/storage/memory"
	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/postprocessors/chunker"
)

const testDims = 4

func newTestIndexer(files map[string]string) (*IndexService, *memory.VectorStore, *mockEmbeddingService, *mockDocumentSource) {
	store := memory.NewVectorStore(testDims)
	embedder := newMockEmbedding(testDims)
	source := &mockDocumentSource{files: files}
	return NewIndexService(store, source, embedder), store, embedder, source
}

func TestIndexService_IndexDocuments(t *testing.T) {
	svc, store, embedder, _ := newTestIndexer(map[string]string{
		"getting-started.md":   "# Getting Started Guide\n\nInstall the tool.",
		"guides/deployment.md": "# Deployment\n\nShip it.",
		"notes.txt":            "not markdown",
	})
	ctx := context.Background()

	report, err := svc.IndexDocuments(ctx, "/docs", driving.IndexOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, domain.StoreStats{DocumentCount: 2, EmbeddingCount: 2}, report.Stats)
	assert.Equal(t, 2, embedder.callCount())

	doc, err := store.GetDocumentByFilename(ctx, "getting-started.md")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Getting Started Guide", doc.Title)
	assert.Equal(t, "# Getting Started Guide Install the tool.", doc.Content)
	assert.Len(t, doc.ContentHash, 64)

	// Single-word heading falls back to the filename.
	doc, err = store.GetDocumentByFilename(ctx, "guides/deployment.md")
	require.NoError(t, err)
	assert.Equal(t, "Deployment", doc.Title)
}

func TestIndexService_Idempotent(t *testing.T) {
	svc, store, embedder, _ := newTestIndexer(map[string]string{
		"a.md": "# Alpha Document\n\nContent.",
	})
	ctx := context.Background()

	_, err := svc.IndexDocuments(ctx, "/docs", driving.IndexOptions{})
	require.NoError(t, err)
	before, err := store.GetDocumentByFilename(ctx, "a.md")
	require.NoError(t, err)

	report, err := svc.IndexDocuments(ctx, "/docs", driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Indexed)
	assert.Equal(t, 1, embedder.callCount(), "unchanged file must not be re-embedded")

	after, err := store.GetDocumentByFilename(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.ContentHash, after.ContentHash)
}

func TestIndexService_ChangeDetection(t *testing.T) {
	svc, store, embedder, source := newTestIndexer(map[string]string{
		"a.md": "# Alpha Document\n\nOld content.",
	})
	ctx := context.Background()

	outcome, err := svc.IndexDocument(ctx, "/docs/a.md", "a.md")
	require.NoError(t, err)
	assert.Equal(t, domain.IndexOutcomeCreated, outcome)
	first, _ := store.GetDocumentByFilename(ctx, "a.md")

	source.files["a.md"] = "# Alpha Document\n\nNew content."
	outcome, err = svc.IndexDocument(ctx, "/docs/a.md", "a.md")
	require.NoError(t, err)
	assert.Equal(t, domain.IndexOutcomeUpdated, outcome)

	second, _ := store.GetDocumentByFilename(ctx, "a.md")
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ContentHash, second.ContentHash)
	assert.Contains(t, second.Content, "New content.")
	assert.Equal(t, 2, embedder.callCount())

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.DocumentCount, stats.EmbeddingCount)
}

func TestIndexService_ReembedsMissingEmbedding(t *testing.T) {
	svc, store, embedder, _ := newTestIndexer(map[string]string{
		"a.md": "# Alpha Document\n\nContent.",
	})
	ctx := context.Background()

	_, err := svc.IndexDocument(ctx, "/docs/a.md", "a.md")
	require.NoError(t, err)

	// Simulate a run that died between the document and embedding writes.
	doc, _ := store.GetDocumentByFilename(ctx, "a.md")
	_, err = store.UpsertDocument(ctx, domain.Document{Filename: "a.md", Content: doc.Content, Title: doc.Title})
	require.NoError(t, err)
	_, err = store.UpsertDocument(ctx, *doc)
	require.NoError(t, err)
	has, _ := store.HasEmbedding(ctx, doc.ID)
	require.False(t, has)

	outcome, err := svc.IndexDocument(ctx, "/docs/a.md", "a.md")
	require.NoError(t, err)
	assert.Equal(t, domain.IndexOutcomeReembed, outcome)
	assert.Equal(t, 2, embedder.callCount())

	has, _ = store.HasEmbedding(ctx, doc.ID)
	assert.True(t, has)
}

func TestIndexService_ProviderErrorAborts(t *testing.T) {
	svc, _, embedder, _ := newTestIndexer(map[string]string{
		"a.md": "# A doc\n\nx",
		"b.md": "# B doc\n\ny",
	})
	embedder.err = domain.NewProviderError("mock", "embed", errors.New("connection refused"))

	report, err := svc.IndexDocuments(context.Background(), "/docs", driving.IndexOptions{})
	require.Error(t, err)

	var pe *domain.ProviderError
	assert.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "a.md")
	assert.Equal(t, 1, report.Scanned, "run stops at the first provider failure")
	assert.Equal(t, 1, embedder.callCount())
}

func TestIndexService_PerFileFailureIsCounted(t *testing.T) {
	svc, _, _, source := newTestIndexer(map[string]string{
		"a.md": "# A doc\n\nx",
		"b.md": "# B doc\n\ny",
	})
	source.readErr = map[string]error{"a.md": errors.New("permission denied")}

	report, err := svc.IndexDocuments(context.Background(), "/docs", driving.IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 1, report.Stats.DocumentCount)
}

func TestIndexService_ListError(t *testing.T) {
	svc, _, _, source := newTestIndexer(nil)
	source.listErr = errors.New("root path error")

	_, err := svc.IndexDocuments(context.Background(), "/docs", driving.IndexOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing documents")
}

func TestIndexService_Prune(t *testing.T) {
	svc, store, _, source := newTestIndexer(map[string]string{
		"keep.md": "# Keep this\n\nx",
		"gone.md": "# Gone soon\n\ny",
	})
	ctx := context.Background()

	_, err := svc.IndexDocuments(ctx, "/docs", driving.IndexOptions{})
	require.NoError(t, err)

	delete(source.files, "gone.md")

	report, err := svc.IndexDocuments(ctx, "/docs", driving.IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Deleted, "documents are kept without --prune")
	assert.Equal(t, 2, report.Stats.DocumentCount)

	report, err = svc.IndexDocuments(ctx, "/docs", driving.IndexOptions{Prune: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, domain.StoreStats{DocumentCount: 1, EmbeddingCount: 1}, report.Stats)

	doc, err := store.GetDocumentByFilename(ctx, "gone.md")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestIndexService_WithoutEmbedder(t *testing.T) {
	store := memory.NewVectorStore(testDims)
	source := &mockDocumentSource{files: map[string]string{"a.md": "# A doc\n\nx"}}
	svc := NewIndexService(store, source, nil)

	report, err := svc.IndexDocuments(context.Background(), "/docs", driving.IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StoreStats{DocumentCount: 1, EmbeddingCount: 0}, report.Stats)

	report, err = svc.IndexDocuments(context.Background(), "/docs", driving.IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
}

func TestIndexService_StoreFailure(t *testing.T) {
	store := &failingStore{VectorStore: memory.NewVectorStore(testDims), upsertErr: errors.New("disk full")}
	source := &mockDocumentSource{files: map[string]string{"a.md": "# A doc\n\nx"}}
	svc := NewIndexService(store, source, newMockEmbedding(testDims))

	outcome, err := svc.IndexDocument(context.Background(), "/docs/a.md", "a.md")
	require.Error(t, err)
	assert.Equal(t, domain.IndexOutcomeFailed, outcome)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEmbeddingInput(t *testing.T) {
	c := chunker.New()

	t.Run("single chunk", func(t *testing.T) {
		got := EmbeddingInput(c, "guides/getting-started.md", "Getting Started", "Hello world. Second sentence.")
		assert.Equal(t, "getting started\nGetting Started\n\nHello world. Second sentence.", got)
	})

	t.Run("no chunks uses full content", func(t *testing.T) {
		got := EmbeddingInput(c, "empty_doc.md", "Empty Doc", "...")
		assert.Equal(t, "empty doc\nEmpty Doc\n\n...", got)
	})

	t.Run("multiple chunks use head excerpt", func(t *testing.T) {
		content := strings.Repeat("This sentence is padding text. ", 200)
		got := EmbeddingInput(c, "long.md", "Long", content)
		assert.Equal(t, "long\nLong\n\n"+content[:headExcerptChars], got)
	})

	t.Run("head excerpt counts characters", func(t *testing.T) {
		content := strings.Repeat("Ceci est une phrase accentuée éèà. ", 200)
		got := EmbeddingInput(c, "long.md", "Long", content)
		excerpt := strings.TrimPrefix(got, "long\nLong\n\n")
		assert.Equal(t, headExcerptChars, utf8.RuneCountInString(excerpt))
		assert.True(t, strings.HasPrefix(content, excerpt))
	})
}

func TestIndexService_Watch(t *testing.T) {
	svc, store, _, source := newTestIndexer(map[string]string{
		"a.md": "# Alpha Document\n\nx",
	})
	ctx := context.Background()
	_, err := svc.IndexDocument(ctx, "/docs/a.md", "a.md")
	require.NoError(t, err)

	watcher := &mockWatcher{events: make(chan driven.FileEvent, 4)}
	svc.SetWatcher(watcher)

	source.files["b.md"] = "# Beta Document\n\ny"
	watcher.events <- driven.FileEvent{File: driven.SourceFile{Path: "/docs/b.md", RelPath: "b.md"}, Kind: driven.FileChanged}
	watcher.events <- driven.FileEvent{Err: errors.New("overflow")}
	watcher.events <- driven.FileEvent{File: driven.SourceFile{Path: "/docs/a.md", RelPath: "a.md"}, Kind: driven.FileRemoved}
	close(watcher.events)

	var got []driving.WatchEvent
	err = svc.Watch(ctx, "/docs", func(ev driving.WatchEvent) { got = append(got, ev) })
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, driving.WatchEvent{RelPath: "b.md", Outcome: domain.IndexOutcomeCreated}, got[0])
	assert.Equal(t, driving.WatchEvent{RelPath: "a.md", Outcome: domain.IndexOutcomeDeleted}, got[1])

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StoreStats{DocumentCount: 1, EmbeddingCount: 1}, stats)
	doc, _ := store.GetDocumentByFilename(ctx, "a.md")
	assert.Nil(t, doc)
}

func TestIndexService_WatchErrors(t *testing.T) {
	svc, _, _, _ := newTestIndexer(nil)

	err := svc.Watch(context.Background(), "/docs", nil)
	assert.Error(t, err)

	svc.SetWatcher(&mockWatcher{err: errors.New("too many open files")})
	err = svc.Watch(context.Background(), "/docs", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many open files")
}
