package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

func TestRelevanceScore_Boosts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		doc        domain.Document
		similarity float64
		expected   float64
	}{
		{
			name:       "no matches keeps similarity",
			query:      "zzz",
			doc:        domain.Document{Filename: "x.md", Title: "A", Content: "b"},
			similarity: 0.4,
			expected:   0.4,
		},
		{
			name:     "title phrase and token",
			query:    "deploy",
			doc:      domain.Document{Filename: "x.md", Title: "Deploy guide"},
			expected: titlePhraseBoost + titleTokenWeight,
		},
		{
			name:     "filename path is normalised",
			query:    "api auth",
			doc:      domain.Document{Filename: "docs/api-auth.md"},
			expected: filenamePhraseBoost + filenameTokenWeight,
		},
		{
			name:       "directory names do not match",
			query:      "deploy",
			doc:        domain.Document{Filename: "deploy/checklist.md", Title: "Checklist"},
			similarity: 0.5,
			expected:   0.5,
		},
		{
			name:     "short words only count as a phrase",
			query:    "of",
			doc:      domain.Document{Filename: "x.md", Title: "list of things"},
			expected: titlePhraseBoost,
		},
		{
			name:       "clamped above",
			query:      "deploy",
			doc:        domain.Document{Filename: "deploy.md", Title: "Deploy", Content: "deploy"},
			similarity: 0.9,
			expected:   1,
		},
		{
			name:       "clamped below",
			query:      "zzz",
			doc:        domain.Document{Filename: "x.md"},
			similarity: -0.5,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RelevanceScore(tt.query, tt.doc, tt.similarity), 1e-9)
		})
	}
}
