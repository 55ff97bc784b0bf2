package services

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by exact text; unknown text embeds to fallback.
type mockEmbeddingService struct {
	mu       sync.Mutex
	dims     int
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    []string
}

func newMockEmbedding(dims int) *mockEmbeddingService {
	fallback := make([]float32, dims)
	fallback[0] = 1
	return &mockEmbeddingService{dims: dims, vectors: map[string][]float32{}, fallback: fallback}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockEmbeddingService) Dimensions() int              { return m.dims }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response  string
	result    *driven.GenerateResult
	err       error
	available bool
	prompts   []string
	opts      []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (*driven.GenerateResult, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &driven.GenerateResult{Text: m.response}, nil
}

func (m *mockLLMService) ProviderName() string               { return "Mock" }
func (m *mockLLMService) IsAvailable(_ context.Context) bool { return m.available }
func (m *mockLLMService) Close() error                       { return nil }

// mockDocumentSource implements driven.DocumentSource over an in-memory tree.
type mockDocumentSource struct {
	files   map[string]string // relPath -> content
	listErr error
	readErr map[string]error
}

func (m *mockDocumentSource) entries(markdownOnly bool) []driven.SourceFile {
	var out []driven.SourceFile
	for rel := range m.files {
		if markdownOnly && !strings.HasSuffix(strings.ToLower(rel), ".md") {
			continue
		}
		out = append(out, driven.SourceFile{Path: "/docs/" + rel, RelPath: rel})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out
}

func (m *mockDocumentSource) List(_ context.Context, _ string) ([]driven.SourceFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries(true), nil
}

func (m *mockDocumentSource) ListFiles(_ context.Context, _ string) ([]driven.SourceFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries(false), nil
}

func (m *mockDocumentSource) ReadFile(_ context.Context, path string) ([]byte, error) {
	rel := strings.TrimPrefix(path, "/docs/")
	if err := m.readErr[rel]; err != nil {
		return nil, err
	}
	content, ok := m.files[rel]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

// mockHintSource implements driven.HintSource for testing.
type mockHintSource struct {
	hints    []domain.HintInfo
	contents map[string]string // path -> content
	listErr  error
	patterns []string
}

func (m *mockHintSource) List(_ context.Context, patterns []string) ([]domain.HintInfo, error) {
	m.patterns = patterns
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.hints, nil
}

func (m *mockHintSource) ReadFile(_ context.Context, path string) (string, error) {
	c, ok := m.contents[path]
	if !ok {
		return "", errors.New("no such hint file")
	}
	return c, nil
}

func (m *mockHintSource) Read(ctx context.Context, path string) (domain.HintInfo, string, error) {
	content, err := m.ReadFile(ctx, path)
	if err != nil {
		return domain.HintInfo{}, "", err
	}
	for _, h := range m.hints {
		if h.Path == path {
			return h, content, nil
		}
	}
	return domain.HintInfo{}, "", errors.New("unknown hint")
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.prompt, m.err }

// mockTokenCounter counts whitespace-separated words.
type mockTokenCounter struct{}

func (mockTokenCounter) CountTokens(text string) int { return len(strings.Fields(text)) }

// mockWatcher implements driven.FileWatcher with a caller-fed channel.
type mockWatcher struct {
	events chan driven.FileEvent
	err    error
}

func (m *mockWatcher) Watch(_ context.Context, _ string) (<-chan driven.FileEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// failingStore wraps a VectorStore and fails selected calls.
type failingStore struct {
	driven.VectorStore
	listErr   error
	getErr    error
	upsertErr error
}

func (f *failingStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.VectorStore.ListDocuments(ctx)
}

func (f *failingStore) GetDocumentByFilename(ctx context.Context, name string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.VectorStore.GetDocumentByFilename(ctx, name)
}

func (f *failingStore) UpsertDocument(ctx context.Context, doc domain.Document) (int64, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	return f.VectorStore.UpsertDocument(ctx, doc)
}
