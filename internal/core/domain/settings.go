package domain

import (
	"path/filepath"
	"strings"
)

// Project defaults.
const (
	DefaultDatabaseFilename = ".flpipeline.projectstate.db"
	DefaultDocsPath         = "docs"
	DefaultHintsDir         = "hints"
	DefaultEmbeddingDims    = 768
)

// AIProvider names an embedding or LLM backend as written in config.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	hosted         bool
	embeddingModel string // empty when the provider has no embeddings API
}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama:    {embeddingModel: "nomic-embed-text"},
	AIProviderOpenAI:    {hosted: true, embeddingModel: "text-embedding-3-small"},
	AIProviderAnthropic: {hosted: true},
}

var providerAliases = map[string]AIProvider{
	"claude":     AIProviderAnthropic,
	"claude-api": AIProviderAnthropic,
}

// ParseAIProvider maps a configured provider name to an AIProvider, case
// insensitively. "claude" is accepted for anthropic. Unknown names are kept
// as given so errors can quote them.
func ParseAIProvider(s string) AIProvider {
	name := strings.ToLower(strings.TrimSpace(s))
	if p, ok := providerAliases[name]; ok {
		return p
	}
	if _, ok := providers[AIProvider(name)]; ok {
		return AIProvider(name)
	}
	return AIProvider(s)
}

func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey reports whether p is a hosted API.
func (p AIProvider) RequiresAPIKey() bool {
	return providers[p].hosted
}

// DefaultEmbeddingModel returns the model used when none is configured.
func DefaultEmbeddingModel(p AIProvider) string {
	return providers[p].embeddingModel
}

func configured(p AIProvider, apiKey string) bool {
	return p.IsValid() && (apiKey != "" || !p.RequiresAPIKey())
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size stored per document.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return configured(e.Provider, e.APIKey)
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name. Empty means the provider default.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return configured(l.Provider, l.APIKey)
}

// SearchSettings holds document search defaults.
type SearchSettings struct {
	Limit         int
	MinSimilarity float64
}

// HintSettings locates hint files.
type HintSettings struct {
	// DefaultDir is always searched for hints.
	DefaultDir string

	// Paths are extra hint locations: directories or single .md files.
	Paths []string
}

// Config is the explicit configuration threaded into constructors.
type Config struct {
	// BaseDir is the directory relative paths are resolved against.
	BaseDir string

	// DatabasePath is the vector store file.
	DatabasePath string

	// DocsPath is the documentation root to index and scan.
	DocsPath string

	Hints     HintSettings
	Search    SearchSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
}

// DefaultConfig returns configuration rooted at baseDir.
func DefaultConfig(baseDir string) Config {
	return Config{
		BaseDir:      baseDir,
		DatabasePath: filepath.Join(baseDir, DefaultDatabaseFilename),
		DocsPath:     filepath.Join(baseDir, DefaultDocsPath),
		Hints: HintSettings{
			DefaultDir: filepath.Join(baseDir, DefaultHintsDir),
		},
		Search: SearchSettings{
			Limit:         DefaultCommandSearchLimit,
			MinSimilarity: DefaultCommandMinSimilarity,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModel(AIProviderOllama),
			Dimensions: DefaultEmbeddingDims,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
		},
	}
}

// Resolve returns p joined to BaseDir unless it is absolute.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
