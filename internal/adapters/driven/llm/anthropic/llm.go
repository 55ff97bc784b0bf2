// Package anthropic generates hint selections with Claude through the
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-20241022"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	// ProviderName is shown to users in availability messages.
	ProviderName = "Claude"

	apiVersion = "2023-06-01"
)

// ErrMissingAPIKey is returned by Generate when no key is configured.
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY is not set")

// Config configures the service. Zero fields take the package defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService talks to /v1/messages. It is safe for concurrent use.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the error object the API returns alongside non-200 statuses.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewLLMService returns a service for cfg.
func NewLLMService(cfg Config) *LLMService {
	s := &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.client.Timeout == 0 {
		s.client.Timeout = DefaultTimeout
	}
	return s
}

// Generate sends prompt as a single user message. Errors are wrapped in a
// *domain.ProviderError.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.GenerateResult, error) {
	result, err := s.generate(ctx, prompt, opts)
	if err != nil {
		return nil, domain.NewProviderError("anthropic", "generate", err)
	}
	return result, nil
}

func (s *LLMService) generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.GenerateResult, error) {
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body := messagesRequest{
		Model:       s.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	if opts.Model != "" {
		body.Model = opts.Model
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = DefaultMaxTokens
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, "/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var out messagesResponse
	decodeErr := json.Unmarshal(raw, &out)
	switch {
	case decodeErr == nil && out.Error != nil:
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, out.Error.Message)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	case decodeErr != nil:
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}

	text := joinText(out.Content)
	if text == "" {
		return nil, errors.New("no text content returned")
	}

	result := &driven.GenerateResult{
		Text:         text,
		Model:        body.Model,
		InputTokens:  out.Usage.InputTokens,
		OutputTokens: out.Usage.OutputTokens,
	}
	if out.Model != "" {
		result.Model = out.Model
	}
	return result, nil
}

// joinText concatenates the text blocks of a reply, skipping tool use and
// other block types.
func joinText(blocks []contentBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

func (s *LLMService) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return resp, nil
}

func (s *LLMService) ProviderName() string { return ProviderName }

// ModelName returns the configured model.
func (s *LLMService) ModelName() string { return s.model }

// IsAvailable reports whether a key is configured and the API accepts it.
func (s *LLMService) IsAvailable(ctx context.Context) bool {
	return s.Ping(ctx) == nil
}

// Ping lists models, which fails fast on a bad key.
func (s *LLMService) Ping(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
	}

	resp, err := s.do(ctx, http.MethodGet, "/v1/models", nil)
	if err != nil {
		return fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anthropic: API returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *LLMService) Close() error { return nil }
