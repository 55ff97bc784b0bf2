package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	if appConfig.DatabasePath != "" {
		cmd.Printf("Database:   %s\n", appConfig.DatabasePath)
	}
	cmd.Printf("Documents:  %d\n", stats.DocumentCount)
	cmd.Printf("Embeddings: %d\n", stats.EmbeddingCount)

	if drift := stats.Drift(); drift > 0 {
		cmd.Println()
		cmd.Println(warnStyle.Render(fmt.Sprintf(
			"Warning: %d document(s) have no embedding. Run \"flpipeline index-docs\" to embed them.", drift)))
	}
	return nil
}
