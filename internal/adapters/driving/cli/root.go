// Package cli implements the flpipeline command line.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNoServices marks commands that run without wiring.
const annotationNoServices = "flpipeline/no-services"

// Persistent flag values.
var (
	configPath string
	dbPath     string
	memoryDB   bool
	verbose    bool
)

// Services used by the commands. Tests assign these directly.
var (
	appConfig       domain.Config
	indexService    driving.IndexService
	searchService   driving.SearchService
	fallbackService driving.SearchService
	hintService     driving.HintService
	documentService driving.DocumentService
	closeServices   func() error
)

// Options are the persistent flag values handed to a Wiring.
type Options struct {
	ConfigPath string
	DBPath     string
	Verbose    bool

	// Memory selects an in-memory store; nothing is persisted.
	Memory bool

	// Command is the name of the command about to run.
	Command string
}

// Services is what a Wiring builds for the commands.
type Services struct {
	Config    domain.Config
	Index     driving.IndexService
	Search    driving.SearchService
	Fallback  driving.SearchService
	Hints     driving.HintService
	Documents driving.DocumentService

	// Close releases stores and provider clients. May be nil.
	Close func() error
}

// Wiring builds the services for a command from the flag values.
type Wiring func(ctx context.Context, opts Options) (*Services, error)

var wiring Wiring

var rootCmd = &cobra.Command{
	Use:   "flpipeline",
	Short: "Retrieve project docs and hints for coding agents",
	Long: `flpipeline indexes a project's documentation into a local vector store and
answers questions about it with semantic search, falling back to lexical
search when embeddings are unavailable. It also picks the hint files that
apply to a task by asking an LLM.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".flpipeline.toml", "config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&memoryDB, "memory", false, "use an in-memory store (nothing is saved)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Execute runs the root command with services built by w.
func Execute(ctx context.Context, w Wiring, v string) error {
	wiring = w
	rootCmd.SetOut(os.Stdout)
	if v != "" {
		version = v
	}
	return run(ctx)
}

// run executes rootCmd and then closes the services, whether or not the
// command failed. Cobra skips post-run hooks after a RunE error.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := teardownServices(); err == nil {
		err = closeErr
	}
	return err
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if wiring == nil {
		return nil
	}
	if _, skip := cmd.Annotations[annotationNoServices]; skip {
		return nil
	}

	svc, err := wiring(cmd.Context(), Options{
		ConfigPath: configPath,
		DBPath:     dbPath,
		Verbose:    verbose,
		Memory:     memoryDB,
		Command:    cmd.Name(),
	})
	if err != nil {
		return err
	}

	appConfig = svc.Config
	indexService = svc.Index
	searchService = svc.Search
	fallbackService = svc.Fallback
	hintService = svc.Hints
	documentService = svc.Documents
	closeServices = svc.Close
	return nil
}

func teardownServices() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// errQueryRequired is returned when a search command gets no query text.
var errQueryRequired = errors.New("Search query is required") //nolint:staticcheck // user-facing message
