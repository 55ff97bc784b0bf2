// Package ai builds the embedding and LLM adapters named in configuration.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	ollamaembed "github.com/facetlayer/flpipeline/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/facetlayer/flpipeline/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/facetlayer/flpipeline/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/facetlayer/flpipeline/internal/adapters/driven/llm/ollama"
	openaillm "github.com/facetlayer/flpipeline/internal/adapters/driven/llm/openai"
	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

// pingTimeout bounds the connectivity check before indexing.
const pingTimeout = 5 * time.Second

var errNoAnthropicEmbeddings = errors.New("anthropic does not support embeddings, use ollama or openai")

type (
	embeddingFactory func(domain.EmbeddingSettings) (driven.EmbeddingService, error)
	llmFactory       func(domain.LLMSettings) driven.LLMService
)

var embeddingFactories = map[domain.AIProvider]embeddingFactory{
	domain.AIProviderOllama: func(s domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    s.BaseURL,
			Model:      s.Model,
			Dimensions: s.Dimensions,
		}), nil
	},
	domain.AIProviderOpenAI: func(s domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     s.APIKey,
			BaseURL:    s.BaseURL,
			Model:      s.Model,
			Dimensions: s.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
}

// Hosted providers are built even without a key; they then report unavailable.
var llmFactories = map[domain.AIProvider]llmFactory{
	domain.AIProviderOllama: func(s domain.LLMSettings) driven.LLMService {
		return ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderOpenAI: func(s domain.LLMSettings) driven.LLMService {
		return openaillm.NewLLMService(openaillm.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderAnthropic: func(s domain.LLMSettings) driven.LLMService {
		return anthropicllm.NewLLMService(anthropicllm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
}

// InitResult holds the services built from configuration. Either may be nil.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService

	// Warnings explain why a service is nil.
	Warnings []string
}

// Close closes whichever services were built.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds both services from cfg without contacting any provider.
// Construction failures become warnings so lexical search keeps working.
func Init(cfg domain.Config) *InitResult {
	var (
		result InitResult
		err    error
	)
	if result.EmbeddingService, err = CreateEmbeddingService(cfg.Embedding); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embeddings disabled: %v", err))
	}
	if result.LLMService, err = CreateLLMService(cfg.LLM); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("hint selection disabled: %v", err))
	}
	return &result
}

// CreateAndValidateEmbeddingService builds the embedding service and pings it.
// Indexing cannot proceed without one, so an unconfigured provider is an error here.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	case svc == nil:
		return nil, fmt.Errorf("%w: provider %q is not configured", domain.ErrEmbeddingUnavailable, settings.Provider)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService returns nil, nil when no provider is configured.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, errNoAnthropicEmbeddings
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	build, ok := embeddingFactories[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
	return build(settings)
}

// CreateLLMService returns the LLM service named by settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	build, ok := llmFactories[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %q", settings.Provider)
	}
	return build(settings), nil
}
