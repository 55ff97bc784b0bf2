package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for flpipeline resources.
	uriScheme = "flpipeline://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing hints.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "hints",
		Name:        "hints",
		Description: "List of all available hint files",
		MIMEType:    "application/json",
	}, s.handleHintsResource)

	// Template for a single hint.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "hints/{name}",
		Name:        "hint-content",
		Description: "Body of a hint file",
		MIMEType:    "text/markdown",
	}, s.handleHintResource)

	// Template for stored document content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "docs/{+filename}",
		Name:        "document-content",
		Description: "Stored content of an indexed document",
		MIMEType:    "text/markdown",
	}, s.handleDocumentResource)
}

// handleHintsResource returns the hint listing.
func (s *Server) handleHintsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Hints == nil {
		return textResult(req.Params.URI, "application/json", "[]"), nil
	}

	hints, err := s.ports.Hints.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing hints: %w", err)
	}
	if hints == nil {
		hints = []domain.HintInfo{}
	}

	data, err := json.MarshalIndent(hints, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling hints: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handleHintResource returns the body of one hint.
func (s *Server) handleHintResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Hints == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	name := extractPath(req.Params.URI, "hints/")
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, body, err := s.ports.Hints.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading hint: %w", err)
	}
	return textResult(req.Params.URI, "text/markdown", body), nil
}

// handleDocumentResource returns the stored content of a document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	filename := extractPath(req.Params.URI, "docs/")
	if filename == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, filename)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return textResult(req.Params.URI, "text/markdown", doc.Content), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractPath returns the unescaped remainder of a URI like
// flpipeline://{kind}{rest}, or "" when the prefix does not match.
func extractPath(uri, kind string) string {
	prefix := uriScheme + kind
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	unescaped, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return unescaped
}
