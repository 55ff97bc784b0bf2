package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
)

var trailingExt = regexp.MustCompile(`\.[^/.]+$`)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reads stored documents and resolves names in the docs tree.
type DocumentService struct {
	store    driven.VectorStore
	source   driven.DocumentSource
	docsRoot string
}

// NewDocumentService creates a document service. store may be nil when only
// Find is needed.
func NewDocumentService(store driven.VectorStore, source driven.DocumentSource, docsRoot string) *DocumentService {
	return &DocumentService{
		store:    store,
		source:   source,
		docsRoot: docsRoot,
	}
}

// Get returns the stored document called filename.
func (s *DocumentService) Get(ctx context.Context, filename string) (*domain.Document, error) {
	if s.store == nil {
		return nil, fmt.Errorf("document store not configured")
	}
	doc, err := s.store.GetDocumentByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %q: %w", filename, domain.ErrNotFound)
	}
	return doc, nil
}

// Find matches name case-insensitively against every file path under the
// docs root. An exact path, with or without extension, wins over substring
// matches; otherwise the match must be unique.
func (s *DocumentService) Find(ctx context.Context, name string) (string, string, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return "", "", fmt.Errorf("%w: expected a document name", domain.ErrInvalidInput)
	}

	files, err := s.source.ListFiles(ctx, s.docsRoot)
	if err != nil {
		return "", "", fmt.Errorf("unable to read docs directory at %s: %w", s.docsRoot, err)
	}

	lowerQuery := strings.ToLower(query)
	var matches []driven.SourceFile
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.RelPath), lowerQuery) {
			matches = append(matches, f)
		}
	}

	if len(matches) == 0 {
		return "", "", &lookupError{
			msg:  fmt.Sprintf("No document found matching %q.", query),
			kind: domain.ErrNotFound,
		}
	}

	selected := -1
	for i, f := range matches {
		lower := strings.ToLower(f.RelPath)
		if lower == lowerQuery || trailingExt.ReplaceAllString(lower, "") == lowerQuery {
			selected = i
			break
		}
	}
	if selected < 0 && len(matches) == 1 {
		selected = 0
	}
	if selected < 0 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.RelPath
		}
		return "", "", &lookupError{
			msg:  fmt.Sprintf("Multiple documents match %q: %s.", query, strings.Join(names, ", ")),
			kind: domain.ErrAmbiguous,
		}
	}

	f := matches[selected]
	raw, err := s.source.ReadFile(ctx, f.Path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read document %q: %w", f.RelPath, err)
	}
	return f.RelPath, string(raw), nil
}

// lookupError carries a user-facing message and a sentinel for errors.Is.
type lookupError struct {
	msg  string
	kind error
}

func (e *lookupError) Error() string { return e.msg }

func (e *lookupError) Unwrap() error { return e.kind }
