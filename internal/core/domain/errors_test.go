package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrAmbiguous", ErrAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestProviderError(t *testing.T) {
	upstream := errors.New("connection refused")
	err := NewProviderError("ollama", "embed", upstream)

	assert.Equal(t, "ollama embed: connection refused", err.Error())
	assert.ErrorIs(t, err, upstream)

	wrapped := fmt.Errorf("index doc: %w", err)
	assert.True(t, IsProviderError(wrapped))
	assert.False(t, IsProviderError(upstream))

	var pe *ProviderError
	require.ErrorAs(t, wrapped, &pe)
	assert.Equal(t, "embed", pe.Op)
}

func TestSelectionParseError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := &SelectionParseError{Response: "not json"}
		assert.Contains(t, err.Error(), `"not json"`)
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("invalid character")
		err := &SelectionParseError{Response: "[oops]", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("long response is truncated", func(t *testing.T) {
		long := make([]byte, 500)
		for i := range long {
			long[i] = 'x'
		}
		err := &SelectionParseError{Response: string(long)}
		assert.Less(t, len(err.Error()), 200)
	})
}

func TestCascadeError(t *testing.T) {
	first := &TierError{Tier: TierSemantic, Err: ErrEmbeddingUnavailable}
	second := &TierError{Tier: TierStoredLexical, Err: errors.New("database is locked")}
	err := &CascadeError{Tiers: []*TierError{first, second}}

	assert.Contains(t, err.Error(), "semantic search: embedding service unavailable")
	assert.Contains(t, err.Error(), "stored-lexical search: database is locked")
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)

	var te *TierError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TierSemantic, te.Tier)
}
