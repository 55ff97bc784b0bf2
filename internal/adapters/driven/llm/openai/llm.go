// Package openai generates hint selections with OpenAI chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"golang.org/x/time/rate"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultLLMModel          = "gpt-4o-mini"
	DefaultLLMTimeout        = 120 * time.Second
	DefaultRequestsPerSecond = 2.0

	// ProviderName is shown to users in availability messages.
	ProviderName = "OpenAI"
)

// ErrMissingAPIKey is returned by Generate when no key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// LLMConfig configures the service. Without an APIKey the service is built
// but reports unavailable. Other zero fields take the package defaults.
type LLMConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// LLMService sends one user message per Generate call, without retries.
type LLMService struct {
	client  openai.Client
	limiter *rate.Limiter
	apiKey  string
	model   string
	timeout time.Duration
}

// NewLLMService returns a service for cfg.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &LLMService{
		client:  openai.NewClient(opts...),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// Generate sends prompt as a single user message.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.GenerateResult, error) {
	result, err := s.generate(ctx, prompt, opts)
	if err != nil {
		return nil, domain.NewProviderError("openai", "generate", err)
	}
	return result, nil
}

func (s *LLMService) generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.GenerateResult, error) {
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.model
	if opts.Model != "" {
		model = opts.Model
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no completion choices returned")
	}

	if completion.Model != "" {
		model = completion.Model
	}
	return &driven.GenerateResult{
		Text:         completion.Choices[0].Message.Content,
		Model:        model,
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
	}, nil
}

func (s *LLMService) ProviderName() string { return ProviderName }

// ModelName returns the configured model.
func (s *LLMService) ModelName() string { return s.model }

// IsAvailable reports whether a key is configured and the API accepts it.
func (s *LLMService) IsAvailable(ctx context.Context) bool {
	return s.Ping(ctx) == nil
}

// Ping validates the API key by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	if _, err := s.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

func (s *LLMService) Close() error { return nil }
