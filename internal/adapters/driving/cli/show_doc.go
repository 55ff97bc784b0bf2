package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var showDocCmd = &cobra.Command{
	Use:   "show-doc <name>",
	Short: "Print a document from the docs directory",
	Long: `Prints the file in the docs directory whose path contains name, ignoring
case. An exact path, with or without its extension, wins over partial
matches; otherwise the match must be unique.`,
	Args: cobra.ExactArgs(1),
	RunE: runShowDoc,
}

func init() {
	rootCmd.AddCommand(showDocCmd)
}

func runShowDoc(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	_, content, err := documentService.Find(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if content == "" {
		return nil
	}
	cmd.Print(content)
	if !strings.HasSuffix(content, "\n") {
		cmd.Println()
	}
	return nil
}
