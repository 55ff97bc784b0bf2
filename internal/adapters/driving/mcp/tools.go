package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
)

// taskDocsLimit is the find_relevant_docs default: a few docs to read before starting a task.
const taskDocsLimit = 3

// SearchDocsInput is the input schema for the search_docs tool.
type SearchDocsInput struct {
	Query         string   `json:"query" jsonschema:"the search query to find documents"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	MinSimilarity *float64 `json:"min_similarity,omitempty" jsonschema:"minimum cosine similarity between 0 and 1 (default 0.5)"`
}

// FindRelevantDocsInput is the input schema for the find_relevant_docs tool.
type FindRelevantDocsInput struct {
	Task  string `json:"task" jsonschema:"description of the task the documents should help with"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 3)"`
}

// SearchOutput is the output schema for the document search tools.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Filename   string  `json:"filename"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Relevance  float64 `json:"relevance"`
	Tier       string  `json:"tier"`
}

// SearchHintsInput is the input schema for the search_hints tool.
type SearchHintsInput struct {
	Query          string   `json:"query" jsonschema:"the task to find hints for"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of hints to return (default 5)"`
	Temperature    *float64 `json:"temperature,omitempty" jsonschema:"LLM sampling temperature (default 0.3)"`
	IncludeContent bool     `json:"include_content,omitempty" jsonschema:"include the full content of each hint"`
}

// SearchHintsOutput is the output schema for the search_hints tool.
type SearchHintsOutput struct {
	Hints []HintOutput `json:"hints"`
	Count int          `json:"count"`

	// Tokens is the total token count of the selection call, when known.
	Tokens int `json:"tokens,omitempty"`
}

// HintOutput represents a selected hint.
type HintOutput struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

// ListHintsInput is the input schema for the list_hints tool.
type ListHintsInput struct{}

// ListHintsOutput is the output schema for the list_hints tool.
type ListHintsOutput struct {
	Hints []domain.HintInfo `json:"hints"`
	Count int               `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Semantic search over the indexed project documentation",
	}, s.handleSearchDocs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_relevant_docs",
		Description: "Find documentation relevant to a task, falling back to keyword search when embeddings are unavailable",
	}, s.handleFindRelevantDocs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_hints",
		Description: "Select the hint files that apply to a task",
	}, s.handleSearchHints)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_hints",
		Description: "List every available hint file with its description",
	}, s.handleListHints)
}

// handleSearchDocs handles the search_docs tool invocation.
func (s *Server) handleSearchDocs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDocsInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit:         input.Limit,
		MinSimilarity: input.MinSimilarity,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

// handleFindRelevantDocs handles the find_relevant_docs tool invocation.
func (s *Server) handleFindRelevantDocs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindRelevantDocsInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = taskDocsLimit
	}

	results, err := s.ports.cascade().Search(ctx, input.Task, domain.SearchOptions{Limit: limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

// handleSearchHints handles the search_hints tool invocation.
func (s *Server) handleSearchHints(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchHintsInput,
) (*mcp.CallToolResult, SearchHintsOutput, error) {
	if s.ports.Hints == nil {
		return nil, SearchHintsOutput{}, ErrMissingHintService
	}

	found, err := s.ports.Hints.Select(ctx, input.Query, driving.SelectOptions{
		MaxHints:    input.Limit,
		Temperature: input.Temperature,
	})
	if err != nil {
		return nil, SearchHintsOutput{}, err
	}

	output := SearchHintsOutput{
		Hints: make([]HintOutput, 0, found.Count()),
		Count: found.Count(),
	}
	for _, name := range found.Names() {
		path, _ := found.Path(name)
		h := HintOutput{Name: name, Path: path}
		if input.IncludeContent {
			content, err := found.Content(name)
			if err != nil {
				return nil, SearchHintsOutput{}, fmt.Errorf("reading hint %s: %w", name, err)
			}
			h.Content = content
		}
		output.Hints = append(output.Hints, h)
	}
	if usage := found.TokenUsage(); usage != nil {
		output.Tokens = usage.Total()
	}

	return nil, output, nil
}

// handleListHints handles the list_hints tool invocation.
func (s *Server) handleListHints(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListHintsInput,
) (*mcp.CallToolResult, ListHintsOutput, error) {
	if s.ports.Hints == nil {
		return nil, ListHintsOutput{}, ErrMissingHintService
	}

	hints, err := s.ports.Hints.List(ctx)
	if err != nil {
		return nil, ListHintsOutput{}, err
	}
	if hints == nil {
		hints = []domain.HintInfo{}
	}
	return nil, ListHintsOutput{Hints: hints, Count: len(hints)}, nil
}

func toSearchOutput(results []domain.SearchResult) SearchOutput {
	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Filename:   results[i].Document.Filename,
			Title:      results[i].Document.Title,
			Similarity: results[i].Similarity,
			Relevance:  results[i].Relevance,
			Tier:       string(results[i].Tier),
		}
	}
	return output
}
