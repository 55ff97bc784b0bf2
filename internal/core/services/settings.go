package services

import (
	"path/filepath"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// Config keys.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDatabasePath     = "database.path"
	keyDocsPath         = "docs.path"
	keyHintsDefaultDir  = "hints.default_dir"
	keyHintsPaths       = "hints.paths"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedDimensions  = "embedding.dimensions"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keySearchLimit      = "search.limit"
	keySearchSimilarity = "search.min_similarity"
)

// knownKeys are the keys Load reads.
var knownKeys = map[string]bool{
	keyDatabasePath: true, keyDocsPath: true,
	keyHintsDefaultDir: true, keyHintsPaths: true,
	keyEmbedProvider: true, keyEmbedModel: true, keyEmbedBaseURL: true, keyEmbedAPIKey: true, keyEmbedDimensions: true,
	keyLLMProvider: true, keyLLMModel: true, keyLLMBaseURL: true, keyLLMAPIKey: true,
	keySearchLimit: true, keySearchSimilarity: true,
}

// Environment variables that override file values.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvOllamaHost      = "OLLAMA_HOST"
)

// SettingsService turns the config store and environment into a domain.Config.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a settings service. getenv is usually os.Getenv.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// Load builds the configuration. Relative paths resolve against the directory
// of the config file; environment variables win over file values.
func (s *SettingsService) Load() domain.Config {
	baseDir := "."
	if p := s.configStore.Path(); p != "" && p != ":memory:" {
		baseDir = filepath.Dir(p)
	}
	cfg := domain.DefaultConfig(baseDir)

	if v := s.configStore.GetString(keyDatabasePath); v != "" {
		cfg.DatabasePath = cfg.Resolve(v)
	}
	if v := s.configStore.GetString(keyDocsPath); v != "" {
		cfg.DocsPath = cfg.Resolve(v)
	}
	if v := s.configStore.GetString(keyHintsDefaultDir); v != "" {
		cfg.Hints.DefaultDir = v
	}
	cfg.Hints.Paths = s.configStore.GetStringSlice(keyHintsPaths)

	if v := s.configStore.GetInt(keySearchLimit); v > 0 {
		cfg.Search.Limit = v
	}
	if v, ok := s.configStore.Get(keySearchSimilarity); ok && v != nil {
		cfg.Search.MinSimilarity = s.configStore.GetFloat(keySearchSimilarity)
	}

	cfg.Embedding = s.embeddingSettings(cfg.Embedding)
	cfg.LLM = s.llmSettings(cfg.LLM)

	for _, key := range s.UnknownKeys() {
		logger.Warn("Ignoring unknown config key %q in %s", key, s.configStore.Path())
	}
	return cfg
}

// UnknownKeys returns the keys in the config store that Load does not read,
// usually misspellings.
func (s *SettingsService) UnknownKeys() []string {
	var unknown []string
	for _, key := range s.configStore.Keys() {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

func (s *SettingsService) embeddingSettings(def domain.EmbeddingSettings) domain.EmbeddingSettings {
	e := def
	if v := s.configStore.GetString(keyEmbedProvider); v != "" {
		e.Provider = domain.ParseAIProvider(v)
		e.Model = domain.DefaultEmbeddingModel(e.Provider)
	}
	if v := s.configStore.GetString(keyEmbedModel); v != "" {
		e.Model = v
	}
	e.BaseURL = s.configStore.GetString(keyEmbedBaseURL)
	e.APIKey = s.configStore.GetString(keyEmbedAPIKey)
	if v := s.configStore.GetInt(keyEmbedDimensions); v > 0 {
		e.Dimensions = v
	}

	switch e.Provider {
	case domain.AIProviderOllama:
		if host := s.getenv(EnvOllamaHost); host != "" {
			e.BaseURL = NormalizeOllamaHost(host)
		}
	case domain.AIProviderOpenAI:
		if key := s.getenv(EnvOpenAIAPIKey); key != "" {
			e.APIKey = key
		}
	}
	return e
}

func (s *SettingsService) llmSettings(def domain.LLMSettings) domain.LLMSettings {
	l := def
	if v := s.configStore.GetString(keyLLMProvider); v != "" {
		l.Provider = domain.ParseAIProvider(v)
	}
	l.Model = s.configStore.GetString(keyLLMModel)
	l.BaseURL = s.configStore.GetString(keyLLMBaseURL)
	l.APIKey = s.configStore.GetString(keyLLMAPIKey)

	switch l.Provider {
	case domain.AIProviderOllama:
		if host := s.getenv(EnvOllamaHost); host != "" {
			l.BaseURL = NormalizeOllamaHost(host)
		}
	case domain.AIProviderAnthropic:
		if key := s.getenv(EnvAnthropicAPIKey); key != "" {
			l.APIKey = key
		}
	case domain.AIProviderOpenAI:
		if key := s.getenv(EnvOpenAIAPIKey); key != "" {
			l.APIKey = key
		}
	}
	return l
}

// NormalizeOllamaHost accepts OLLAMA_HOST values like "host:port" and
// returns a URL with a scheme.
func NormalizeOllamaHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host
}
