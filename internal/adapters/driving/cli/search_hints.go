package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/core/services"
)

// hintFlags are shared by search-hints and show-hints.
type hintFlags struct {
	limit       int
	model       string
	temperature float64
}

func (f *hintFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.limit, "limit", "n", domain.DefaultMaxHints, "maximum number of hints")
	cmd.Flags().StringVar(&f.model, "model", "", "LLM model (defaults to the configured model)")
	cmd.Flags().Float64Var(&f.temperature, "temperature", domain.DefaultHintTemperature, "LLM sampling temperature")
}

func (f *hintFlags) options() driving.SelectOptions {
	temperature := f.temperature
	return driving.SelectOptions{
		MaxHints:    f.limit,
		Temperature: &temperature,
		Model:       f.model,
	}
}

var (
	searchHintsFlags       hintFlags
	searchHintsShowContent bool
	showHintsFlags         hintFlags
)

var searchHintsCmd = &cobra.Command{
	Use:   "search-hints <query...>",
	Short: "Find hint files relevant to a task",
	Long: `Lists every hint file and asks the configured LLM which of them apply to
the query. Prints the selected hint names and the cost of the call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchHints,
}

var showHintsCmd = &cobra.Command{
	Use:   "show-hints <query...>",
	Short: "Print the full content of the hints relevant to a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShowHints,
}

func init() {
	searchHintsFlags.register(searchHintsCmd)
	searchHintsCmd.Flags().BoolVar(&searchHintsShowContent, "show-content", false, "print the selected hints after the listing")
	showHintsFlags.register(showHintsCmd)

	rootCmd.AddCommand(searchHintsCmd)
	rootCmd.AddCommand(showHintsCmd)
}

func runSearchHints(cmd *cobra.Command, args []string) error {
	found, err := selectHints(cmd, args, searchHintsFlags)
	if err != nil {
		return fmt.Errorf("Failed to search hints: %w", err) //nolint:staticcheck // user-facing message
	}
	if !found.HasHints() {
		cmd.Println("No relevant hints found for your query.")
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Found %d relevant hint file(s):", found.Count())))
	cmd.Println()
	for i, name := range found.Names() {
		cmd.Println(nameStyle.Render(fmt.Sprintf("%d. %s", i+1, name)))
	}

	if searchHintsShowContent {
		content, err := found.Concatenated("")
		if err != nil {
			return fmt.Errorf("Failed to search hints: %w", err) //nolint:staticcheck // user-facing message
		}
		cmd.Println()
		cmd.Println(content)
	} else {
		cmd.Println()
		cmd.Println(`Use "flpipeline show-hints" to display the full content of all hints.`)
	}

	if line := tokenUsageLine(found.TokenUsage()); line != "" {
		cmd.Println(mutedStyle.Render(line))
	}
	return nil
}

func runShowHints(cmd *cobra.Command, args []string) error {
	found, err := selectHints(cmd, args, showHintsFlags)
	if err != nil {
		return fmt.Errorf("Failed to show hints: %w", err) //nolint:staticcheck // user-facing message
	}
	if !found.HasHints() {
		cmd.Println("No relevant hints found for your query.")
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Found %d relevant hint file(s):", found.Count())))
	cmd.Println()

	for _, name := range found.Names() {
		info, body, err := hintService.Get(cmd.Context(), name)
		if err != nil {
			cmd.PrintErrln(warnStyle.Render(fmt.Sprintf("Warning: Could not parse hint %s: %v", name, err)))
			continue
		}

		cmd.Println(rule())
		cmd.Println()
		cmd.Println(headingStyle.Render("Hint: " + name))
		if info.Description != "" && info.Description != domain.DefaultHintDescription {
			cmd.Println(info.Description)
		}
		if info.RelevantFor != "" {
			cmd.Println("Relevant for: " + info.RelevantFor)
		}
		cmd.Println()
		cmd.Println(rule())
		cmd.Println(strings.TrimSpace(body))
		cmd.Println(rule())
		cmd.Println()
	}
	return nil
}

// selectHints validates the query, checks the provider and runs the selection.
func selectHints(cmd *cobra.Command, args []string, flags hintFlags) (*domain.FoundHints, error) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return nil, errQueryRequired
	}
	if hintService == nil {
		return nil, errors.New("hint service not configured")
	}

	if !hintService.IsAvailable(cmd.Context()) {
		p := hintService.ProviderName()
		return nil, fmt.Errorf("%s service is not available. Please ensure %s is running and configured properly.", p, p) //nolint:staticcheck,lll // user-facing message
	}

	return hintService.Select(cmd.Context(), query, flags.options())
}

// tokenUsageLine renders the cost of a selection call, or "" without usage.
func tokenUsageLine(usage *domain.TokenUsage) string {
	if usage == nil {
		return ""
	}

	suffix := ""
	if usage.Estimated {
		suffix = " (estimated)"
	}
	if cost, ok := services.CalculateTokenCost(usage.Model, usage.InputTokens, usage.OutputTokens); ok {
		return "Token Usage: " + services.FormatCost(cost) + suffix
	}
	if usage.Total() > 0 {
		return fmt.Sprintf("Token Usage: %d tokens%s", usage.Total(), suffix)
	}
	return ""
}
