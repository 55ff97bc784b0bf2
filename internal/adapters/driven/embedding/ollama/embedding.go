// Package ollama embeds text with a local Ollama server.
package ollama

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

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = domain.DefaultEmbeddingDims // nomic-embed-text
)

const providerName = "ollama"

// errorBodyLimit caps how much of an error response ends up in the message.
const errorBodyLimit = 512

// Config configures an EmbeddingService. Zero fields take the defaults.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is the vector size the model must return.
	Dimensions int
}

// EmbeddingService calls POST /api/embeddings once per text.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	model      string
	dimensions int
}

type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewEmbeddingService creates an embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed returns the embedding of text. Every failure is a *domain.ProviderError.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embeddingsResponse
	err := s.call(ctx, http.MethodPost, "/api/embeddings", embeddingsRequest{Model: s.model, Prompt: text}, &resp)
	if err != nil {
		return nil, domain.NewProviderError(providerName, "embed", err)
	}

	switch n := len(resp.Embedding); {
	case n == 0:
		return nil, domain.NewProviderError(providerName, "embed", errors.New("empty embedding returned"))
	case n != s.dimensions:
		return nil, domain.NewProviderError(providerName, "embed",
			fmt.Errorf("model %s returned %d dimensions, expected %d", s.model, n, s.dimensions))
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions returns the vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and has the model pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	var tags tagsResponse
	if err := s.call(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return fmt.Errorf("ollama: %w", err)
	}
	for _, m := range tags.Models {
		if hasModel(m.Name, s.model) {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q is not installed (run \"ollama pull %s\")", s.model, s.model)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// hasModel matches an installed tag against a configured model name,
// where "nomic-embed-text" means "nomic-embed-text:latest".
func hasModel(installed, model string) bool {
	if installed == model {
		return true
	}
	if !strings.Contains(model, ":") {
		return installed == model+":latest"
	}
	return false
}

// call sends body as JSON (when non-nil) and decodes a 200 response into out.
func (s *EmbeddingService) call(ctx context.Context, method, path string, body, out any) error {
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
