package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var listHintsCmd = &cobra.Command{
	Use:   "list-hints",
	Short: "List all available hint files",
	Long: `Lists the hint files found in the default hints directory and the configured
hint paths. With --verbose each hint's description and relevance criteria
are shown as well.`,
	Args: cobra.NoArgs,
	RunE: runListHints,
}

func init() {
	rootCmd.AddCommand(listHintsCmd)
}

func runListHints(cmd *cobra.Command, _ []string) error {
	if hintService == nil {
		return errors.New("hint service not configured")
	}

	hints, err := hintService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("Failed to list hints: %w", err) //nolint:staticcheck // user-facing message
	}

	if len(hints) == 0 {
		cmd.Println("No hint files found.")
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Found %d hint file(s):", len(hints))))
	cmd.Println()

	if verbose {
		for i, h := range hints {
			cmd.Println(nameStyle.Render(fmt.Sprintf("%d. %s", i+1, h.Name)))
			cmd.Println("   " + h.Description)
			if h.RelevantFor != "" {
				cmd.Println(mutedStyle.Render("   Relevant for: " + h.RelevantFor))
			}
			if i < len(hints)-1 {
				cmd.Println()
			}
		}
		return nil
	}

	for i, h := range hints {
		cmd.Println(nameStyle.Render(fmt.Sprintf("%d. %s", i+1, h.Name)))
	}
	cmd.Println()
	cmd.Println("Use --verbose to see descriptions and relevance criteria.")
	cmd.Println(`Use "flpipeline show-hints" to see full content of all hints.`)
	return nil
}
