package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
)

var (
	indexDocsPath  string
	indexDocsPrune bool
	indexDocsWatch bool
)

var indexDocsCmd = &cobra.Command{
	Use:   "index-docs",
	Short: "Index the docs directory into the vector store",
	Long: `Reads every markdown file under the docs directory, stores its content and
embeds it. Files whose content hash is unchanged are skipped.

With --prune, stored documents whose file is gone are deleted. With --watch
the command keeps running and re-indexes files as they change.`,
	Args: cobra.NoArgs,
	RunE: runIndexDocs,
}

func init() {
	indexDocsCmd.Flags().StringVar(&indexDocsPath, "path", "", "docs directory (defaults to docs.path)")
	indexDocsCmd.Flags().BoolVar(&indexDocsPrune, "prune", false, "delete documents whose file no longer exists")
	indexDocsCmd.Flags().BoolVar(&indexDocsWatch, "watch", false, "keep watching for changes after indexing")
	rootCmd.AddCommand(indexDocsCmd)
}

func runIndexDocs(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	root := indexDocsPath
	if root == "" {
		root = appConfig.DocsPath
	}
	if root == "" {
		return errors.New("docs path not configured")
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("Documentation directory not found: %s", root) //nolint:staticcheck // user-facing message
	}

	cmd.Printf("Indexing documentation from: %s\n", root)
	if appConfig.DatabasePath != "" {
		cmd.Printf("Using database: %s\n", appConfig.DatabasePath)
	}

	ctx := cmd.Context()
	report, err := indexService.IndexDocuments(ctx, root, driving.IndexOptions{Prune: indexDocsPrune})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	printIndexReport(cmd, report)

	if !indexDocsWatch {
		return nil
	}

	cmd.Println()
	cmd.Println(mutedStyle.Render("Watching for changes (Ctrl+C to stop)..."))
	err = indexService.Watch(ctx, root, func(ev driving.WatchEvent) {
		if ev.Err != nil {
			cmd.PrintErrln(warnStyle.Render(fmt.Sprintf("%s: %s: %v", domain.IndexOutcomeFailed, ev.RelPath, ev.Err)))
			return
		}
		cmd.Printf("%s: %s\n", ev.Outcome, ev.RelPath)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printIndexReport(cmd *cobra.Command, report domain.IndexReport) {
	cmd.Println()
	cmd.Println(headingStyle.Render("Finished checking every doc."))
	cmd.Printf(" - Total stored documents: %d\n", report.Stats.DocumentCount)
	cmd.Printf(" - Total embeddings: %d\n", report.Stats.EmbeddingCount)
	cmd.Printf(" - Indexed: %d, unchanged: %d, failed: %d\n", report.Indexed, report.Skipped, report.Failed)
	if report.Deleted > 0 {
		cmd.Printf(" - Deleted: %d\n", report.Deleted)
	}
}
