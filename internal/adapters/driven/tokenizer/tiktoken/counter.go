// Package tiktoken estimates token counts with OpenAI's BPE encodings.
package tiktoken

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// DefaultEncoding is close enough to Claude and Llama tokenisers for cost estimates.
const DefaultEncoding = "cl100k_base"

// charsPerToken is the fallback ratio when the encoding cannot be loaded.
const charsPerToken = 4

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// Counter counts tokens. The encoding is loaded on first use; if loading
// fails, counts fall back to a character-based estimate.
type Counter struct {
	name string

	once     sync.Once
	encoding *tiktoken.Tiktoken
	loadErr  error
}

// NewCounter creates a counter for the named encoding.
// An empty name means DefaultEncoding.
func NewCounter(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Counter{name: encoding}
}

// Load resolves the encoding eagerly and reports why it is unavailable.
func (c *Counter) Load() error {
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.name)
		if err != nil {
			c.loadErr = fmt.Errorf("failed to get tiktoken encoding %s: %w", c.name, err)
			logger.Debug("token counter falling back to estimates: %v", c.loadErr)
			return
		}
		c.encoding = enc
	})
	return c.loadErr
}

// CountTokens returns the number of tokens in text.
func (c *Counter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if err := c.Load(); err != nil {
		return EstimateTokens(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// EstimateTokens approximates a token count from the character count.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}
