// Package chunker splits text into sentence-aligned chunks.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the default maximum number of characters per chunk.
const DefaultMaxChunkSize = 1000

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Chunker greedily packs sentences into chunks no longer than maxSize.
// A single sentence longer than maxSize becomes its own chunk.
type Chunker struct {
	maxSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the maximum chunk size in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{maxSize: DefaultMaxChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxChunkSize returns the configured limit.
func (c *Chunker) MaxChunkSize() int {
	return c.maxSize
}

// Chunk splits text on runs of '.', '!' and '?'. Sentences are joined with
// ". " and every chunk is terminated with a period. Empty sentences are
// dropped, so text without any words yields no chunks. Sizes are counted in
// characters.
func (c *Chunker) Chunk(text string) []string {
	var chunks []string
	var current strings.Builder
	size := 0

	for _, raw := range sentenceEnd.Split(text, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		n := utf8.RuneCountInString(sentence)
		if size+n+1 <= c.maxSize {
			if current.Len() > 0 {
				current.WriteString(". ")
				size += 2
			}
			current.WriteString(sentence)
			size += n
			continue
		}
		if current.Len() > 0 {
			chunks = append(chunks, current.String()+".")
		}
		current.Reset()
		current.WriteString(sentence)
		size = n
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String()+".")
	}
	return chunks
}
