package mcp

import (
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs semantic search.
	Search driving.SearchService

	// Fallback runs the search cascade. When nil, find_relevant_docs uses Search.
	Fallback driving.SearchService

	// Hints lists and selects hint files. Optional.
	Hints driving.HintService

	// Document reads stored documents. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

// cascade returns the service find_relevant_docs searches with.
func (p *Ports) cascade() driving.SearchService {
	if p.Fallback != nil {
		return p.Fallback
	}
	return p.Search
}
