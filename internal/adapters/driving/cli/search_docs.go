package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

var (
	searchDocsLimit      int
	searchDocsSimilarity float64
	searchDocsFallback   bool
)

var searchDocsCmd = &cobra.Command{
	Use:   "search-docs [query...]",
	Short: "Search indexed documentation",
	Long: `Embeds the query and returns the closest indexed documents, re-ranked by
title, filename and content matches.

When the query is omitted it is read from stdin. With --fallback (the default)
lexical search over the stored documents, then over the docs directory, is
used if semantic search fails.`,
	RunE: runSearchDocs,
}

func init() {
	searchDocsCmd.Flags().IntVarP(&searchDocsLimit, "limit", "n", domain.DefaultCommandSearchLimit, "maximum number of results")
	searchDocsCmd.Flags().Float64Var(&searchDocsSimilarity, "similarity", domain.DefaultCommandMinSimilarity,
		"minimum cosine similarity for semantic results")
	searchDocsCmd.Flags().BoolVar(&searchDocsFallback, "fallback", true, "fall back to lexical search on failure")
	rootCmd.AddCommand(searchDocsCmd)
}

// docResult is the JSON shape printed per hit.
type docResult struct {
	Filename   string `json:"filename"`
	Title      string `json:"title"`
	Similarity string `json:"similarity"`
	Relevance  string `json:"relevance"`
}

func runSearchDocs(cmd *cobra.Command, args []string) error {
	query, err := queryFromArgsOrStdin(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(query) == "" {
		return errQueryRequired
	}

	svc := searchService
	if searchDocsFallback && fallbackService != nil {
		svc = fallbackService
	}
	if svc == nil {
		return errors.New("search service not configured")
	}

	similarity := searchDocsSimilarity
	results, err := svc.Search(cmd.Context(), query, domain.SearchOptions{
		Limit:         searchDocsLimit,
		MinSimilarity: &similarity,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return outputSearchJSON(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	out := make([]docResult, len(results))
	for i, r := range results {
		out[i] = docResult{
			Filename:   r.Document.Filename,
			Title:      r.Document.Title,
			Similarity: strconv.FormatFloat(r.Similarity, 'f', 3, 64),
			Relevance:  strconv.FormatFloat(r.Relevance, 'f', 3, 64),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// queryFromArgsOrStdin joins args, or reads stdin when no args are given and
// stdin is not a terminal.
func queryFromArgsOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
