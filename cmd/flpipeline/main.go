// Command flpipeline indexes project docs and selects hint files for coding agents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/facetlayer/flpipeline/internal/adapters/driven/ai"
	"github.com/facetlayer/flpipeline/internal/adapters/driven/config/file"
	docsfs "github.com/facetlayer/flpipeline/internal/adapters/driven/docs/filesystem"
	hintsfs "github.com/facetlayer/flpipeline/internal/adapters/driven/hints/filesystem"
	"github.com/facetlayer/flpipeline/internal/adapters/driven/storage/memory"
	"github.com/facetlayer/flpipeline/internal/adapters/driven/storage/sqlite"
	"github.com/facetlayer/flpipeline/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/facetlayer/flpipeline/internal/adapters/driving/cli"
	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/services"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// promptsDir holds prompt overrides, next to the config file.
const promptsDir = "prompts"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, wire, version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// wire builds every service a command needs from the config file and environment.
func wire(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	if err := file.LoadEnvFile(file.EnvFileFor(opts.ConfigPath)); err != nil {
		logger.Warn("Could not load %s: %v", file.EnvFileFor(opts.ConfigPath), err)
	}

	configStore, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := services.NewSettingsService(configStore, os.Getenv).Load()
	if opts.DBPath != "" {
		cfg.DatabasePath = opts.DBPath
	}
	logger.Debug("Config %s: db=%s docs=%s", configStore.Path(), cfg.DatabasePath, cfg.DocsPath)

	store, err := openStore(cfg, opts.Memory)
	if err != nil {
		return nil, err
	}

	aiServices := ai.Init(cfg)
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	// Indexing without embeddings would leave the store half built.
	var embedder driven.EmbeddingService = aiServices.EmbeddingService
	if opts.Command == "index-docs" {
		validated, err := ai.CreateAndValidateEmbeddingService(ctx, cfg.Embedding)
		if err != nil {
			aiServices.Close()
			store.Close()
			return nil, err
		}
		embedder = validated
	}

	docs := docsfs.NewSource()

	index := services.NewIndexService(store, docs, embedder)
	index.SetWatcher(docsfs.NewWatcher())

	search := services.NewSearchService(store, aiServices.EmbeddingService)
	fallback := services.NewFallbackChain(
		services.NewSemanticTier(search),
		services.NewStoredLexicalTier(store),
		services.NewFilesystemLexicalTier(docs, cfg.DocsPath),
	)

	hints := services.NewHintService(hintsfs.NewSource(), aiServices.LLMService, services.HintPatterns(cfg))
	hints.SetPromptStore(file.NewPromptStore(filepath.Join(filepath.Dir(configStore.Path()), promptsDir)))
	hints.SetTokenCounter(tiktoken.NewCounter(tiktoken.DefaultEncoding))

	return &cli.Services{
		Config:    cfg,
		Index:     index,
		Search:    search,
		Fallback:  fallback,
		Hints:     hints,
		Documents: services.NewDocumentService(store, docs, cfg.DocsPath),
		Close: func() error {
			aiServices.Close()
			if embedder != aiServices.EmbeddingService {
				embedder.Close()
			}
			return store.Close()
		},
	}, nil
}

// openStore opens the SQLite database, or an empty in-memory store for --memory runs.
func openStore(cfg domain.Config, inMemory bool) (driven.VectorStore, error) {
	if inMemory {
		logger.Debug("Using in-memory store")
		return memory.NewVectorStore(cfg.Embedding.Dimensions), nil
	}
	store, err := sqlite.NewStore(cfg.DatabasePath, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}
