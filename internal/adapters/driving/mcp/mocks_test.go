package mcp

import (
	"context"
	"errors"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	query   string
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

// mockHintService is a mock implementation of driving.HintService.
type mockHintService struct {
	hints    []domain.HintInfo
	bodies   map[string]string
	selected []string
	usage    *domain.TokenUsage
	err      error
	opts     driving.SelectOptions
}

func (m *mockHintService) List(_ context.Context) ([]domain.HintInfo, error) {
	return m.hints, m.err
}

func (m *mockHintService) Get(_ context.Context, name string) (domain.HintInfo, string, error) {
	if m.err != nil {
		return domain.HintInfo{}, "", m.err
	}
	for _, h := range m.hints {
		if h.Name == name {
			return h, m.bodies[name], nil
		}
	}
	return domain.HintInfo{}, "", domain.ErrNotFound
}

func (m *mockHintService) Select(_ context.Context, _ string, opts driving.SelectOptions) (*domain.FoundHints, error) {
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

func (m *mockHintService) ProviderName() string               { return "Mock" }
func (m *mockHintService) IsAvailable(_ context.Context) bool { return true }

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	err      error
	name     string
}

func (m *mockDocumentService) Get(_ context.Context, filename string) (*domain.Document, error) {
	m.name = filename
	return m.document, m.err
}

func (m *mockDocumentService) Find(_ context.Context, _ string) (string, string, error) {
	if m.document == nil {
		return "", "", domain.ErrNotFound
	}
	return m.document.Filename, m.document.Content, m.err
}
