package cli

import (
	"context"
	"errors"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	report      domain.IndexReport
	stats       domain.StoreStats
	err         error
	watchEvents []driving.WatchEvent
	watchErr    error
	root        string
	opts        driving.IndexOptions
	watched     bool
}

func (m *mockIndexService) IndexDocuments(_ context.Context, root string, opts driving.IndexOptions) (domain.IndexReport, error) {
	m.root = root
	m.opts = opts
	return m.report, m.err
}

func (m *mockIndexService) IndexDocument(_ context.Context, _, _ string) (domain.IndexOutcome, error) {
	return domain.IndexOutcomeCreated, m.err
}

func (m *mockIndexService) Watch(_ context.Context, _ string, onEvent func(driving.WatchEvent)) error {
	m.watched = true
	for _, ev := range m.watchEvents {
		onEvent(ev)
	}
	return m.watchErr
}

func (m *mockIndexService) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	query   string
	opts    domain.SearchOptions
	calls   int
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.calls++
	m.query = query
	m.opts = opts
	return m.results, m.err
}

// mockHintService implements driving.HintService for testing.
type mockHintService struct {
	hints       []domain.HintInfo
	bodies      map[string]string
	selected    []string
	usage       *domain.TokenUsage
	unavailable bool
	err         error
	query       string
	opts        driving.SelectOptions
}

func (m *mockHintService) List(_ context.Context) ([]domain.HintInfo, error) {
	return m.hints, m.err
}

func (m *mockHintService) Get(_ context.Context, name string) (domain.HintInfo, string, error) {
	for _, h := range m.hints {
		if h.Name == name {
			return h, m.bodies[name], nil
		}
	}
	return domain.HintInfo{}, "", domain.ErrNotFound
}

func (m *mockHintService) Select(_ context.Context, text string, opts driving.SelectOptions) (*domain.FoundHints, error) {
	m.query = text
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	paths := make(map[string]string)
	for _, h := range m.hints {
		paths[h.Name] = h.Path
	}
	read := func(path string) (string, error) {
		for _, h := range m.hints {
			if h.Path == path {
				return m.bodies[h.Name], nil
			}
		}
		return "", errors.New("unknown path")
	}
	return domain.NewFoundHints(m.selected, paths, read, m.usage), nil
}

func (m *mockHintService) ProviderName() string               { return "Ollama" }
func (m *mockHintService) IsAvailable(_ context.Context) bool { return !m.unavailable }

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	rel     string
	content string
	err     error
}

func (m *mockDocumentService) Get(_ context.Context, filename string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{Filename: filename, Content: m.content}, nil
}

func (m *mockDocumentService) Find(_ context.Context, _ string) (string, string, error) {
	return m.rel, m.content, m.err
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	index    *mockIndexService
	search   *mockSearchService
	fallback *mockSearchService
	hints    *mockHintService
	docs     *mockDocumentService
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous services and resets flag variables.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		index: &mockIndexService{},
		search: &mockSearchService{results: []domain.SearchResult{
			{
				Document:   domain.Document{Filename: "guides/setup.md", Title: "Setup Guide"},
				Similarity: 0.8123,
				Relevance:  0.9,
				Tier:       domain.TierSemantic,
			},
		}},
		fallback: &mockSearchService{},
		hints: &mockHintService{
			hints: []domain.HintInfo{
				{Name: "logging", Description: "Logging rules", RelevantFor: "adding log lines", Path: "/hints/logging.md"},
				{Name: "testing", Description: domain.DefaultHintDescription, Path: "/hints/testing.md"},
			},
			bodies: map[string]string{
				"logging": "\nUse the logger package.\n",
				"testing": "Use testify.",
			},
		},
		docs: &mockDocumentService{},
	}

	oldConfig := appConfig
	oldIndex, oldSearch, oldFallback := indexService, searchService, fallbackService
	oldHints, oldDocs := hintService, documentService

	appConfig = domain.Config{DatabasePath: "/tmp/test.db", DocsPath: "docs"}
	indexService = ts.index
	searchService = ts.search
	fallbackService = ts.fallback
	hintService = ts.hints
	documentService = ts.docs

	return ts, func() {
		appConfig = oldConfig
		indexService, searchService, fallbackService = oldIndex, oldSearch, oldFallback
		hintService, documentService = oldHints, oldDocs
		resetFlags()
	}
}

// resetFlags restores every flag variable to its default.
func resetFlags() {
	configPath = ".flpipeline.toml"
	dbPath = ""
	memoryDB = false
	verbose = false
	logger.SetVerbose(false)
	searchDocsLimit = domain.DefaultCommandSearchLimit
	searchDocsSimilarity = domain.DefaultCommandMinSimilarity
	searchDocsFallback = true
	searchHintsFlags = hintFlags{limit: domain.DefaultMaxHints, temperature: domain.DefaultHintTemperature}
	showHintsFlags = hintFlags{limit: domain.DefaultMaxHints, temperature: domain.DefaultHintTemperature}
	searchHintsShowContent = false
	indexDocsPath = ""
	indexDocsPrune = false
	indexDocsWatch = false
	mcpServePort = 0
	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
}
