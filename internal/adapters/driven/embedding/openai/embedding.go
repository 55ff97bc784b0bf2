// Package openai embeds documents and queries with the OpenAI embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultModel             = "text-embedding-3-small"
	DefaultTimeout           = 60 * time.Second
	DefaultDimensions        = domain.DefaultEmbeddingDims
	DefaultRequestsPerSecond = 5.0

	providerName = "openai"
)

// Config configures the service. APIKey is required; other zero fields take
// the package defaults. BaseURL points at an OpenAI-compatible endpoint.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	Dimensions        int
	RequestsPerSecond float64
}

// EmbeddingService calls the embeddings endpoint through openai-go with
// retries disabled and a client-side rate limit.
type EmbeddingService struct {
	client     openai.Client
	limiter    *rate.Limiter
	model      string
	dimensions int
	timeout    time.Duration
}

// NewEmbeddingService returns a service for cfg.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}

	s := &EmbeddingService{
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.dimensions == 0 {
		s.dimensions = DefaultDimensions
	}
	if s.timeout == 0 {
		s.timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), 1)

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	s.client = openai.NewClient(opts...)
	return s, nil
}

// Embed returns the vector for text. Errors are wrapped in a *domain.ProviderError.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embed(ctx, text)
	if err != nil {
		return nil, domain.NewProviderError(providerName, "embed", err)
	}
	return vec, nil
}

func (s *EmbeddingService) embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(s.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	}
	if supportsDimensions(s.model) {
		params.Dimensions = openai.Int(int64(s.dimensions))
	}

	resp, err := s.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embedding returned")
	}

	raw := resp.Data[0].Embedding
	if len(raw) != s.dimensions {
		return nil, fmt.Errorf("model %s returned %d dimensions, expected %d", s.model, len(raw), s.dimensions)
	}
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

// supportsDimensions reports whether model can be asked for shortened vectors.
func supportsDimensions(model string) bool {
	return strings.HasPrefix(model, "text-embedding-3-")
}

func (s *EmbeddingService) Dimensions() int { return s.dimensions }

func (s *EmbeddingService) ModelName() string { return s.model }

// Ping lists models, which fails fast on a bad key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

func (s *EmbeddingService) Close() error { return nil }
