// Package ollama generates hint selections with a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama2"
	DefaultLLMTimeout = 120 * time.Second

	// ProviderName is shown to users in availability messages.
	ProviderName = "Ollama"

	errorBodyLimit = 512
)

// LLMConfig configures the service. Zero fields take the package defaults.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls /api/generate without streaming.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

// generateResponse carries the eval counts Ollama reports as token usage.
type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// NewLLMService returns a service for cfg.
func NewLLMService(cfg LLMConfig) *LLMService {
	s := &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.model == "" {
		s.model = DefaultLLMModel
	}
	if s.client.Timeout == 0 {
		s.client.Timeout = DefaultLLMTimeout
	}
	return s
}

// Generate produces a completion. The temperature is sent as given, so zero
// asks for deterministic output.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.GenerateResult, error) {
	req := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Options: &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		},
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}

	var resp generateResponse
	if err := s.call(ctx, http.MethodPost, "/api/generate", req, &resp); err != nil {
		return nil, domain.NewProviderError("ollama", "generate", err)
	}

	result := &driven.GenerateResult{
		Text:         strings.TrimSpace(resp.Response),
		Model:        req.Model,
		InputTokens:  resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
	}
	if resp.Model != "" {
		result.Model = resp.Model
	}
	return result, nil
}

func (s *LLMService) ProviderName() string { return ProviderName }

// ModelName returns the configured model.
func (s *LLMService) ModelName() string { return s.model }

// IsAvailable reports whether the server answers.
func (s *LLMService) IsAvailable(ctx context.Context) bool {
	return s.Ping(ctx) == nil
}

// Ping lists installed models.
func (s *LLMService) Ping(ctx context.Context) error {
	var tags struct {
		Models []json.RawMessage `json:"models"`
	}
	if err := s.call(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return fmt.Errorf("ollama: %w", err)
	}
	return nil
}

func (s *LLMService) Close() error { return nil }

func (s *LLMService) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
