package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchOptions_Defaults(t *testing.T) {
	opts := SearchOptions{}

	assert.Equal(t, 10, opts.LimitOr(DefaultSearchLimit))
	assert.InDelta(t, 0.5, opts.MinSimilarityOrDefault(), 1e-9)
}

func TestSearchOptions_ZeroFloorIsKept(t *testing.T) {
	zero := 0.0
	opts := SearchOptions{Limit: 3, MinSimilarity: &zero}

	assert.Equal(t, 3, opts.LimitOr(DefaultSearchLimit))
	assert.Equal(t, 0.0, opts.MinSimilarityOrDefault())
}

func TestNeighbor_Similarity(t *testing.T) {
	assert.InDelta(t, 0.75, Neighbor{Distance: 0.25}.Similarity(), 1e-9)
	assert.InDelta(t, -1.0, Neighbor{Distance: 2}.Similarity(), 1e-9)
}

func TestStoreStats_Drift(t *testing.T) {
	assert.Equal(t, 0, StoreStats{DocumentCount: 4, EmbeddingCount: 4}.Drift())
	assert.Equal(t, 2, StoreStats{DocumentCount: 4, EmbeddingCount: 2}.Drift())
}
