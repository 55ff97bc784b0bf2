package services

import (
	"math"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/normalisers/markdown"
)

// Relevance boosts added on top of cosine similarity. Filename matches weigh
// more than title matches because filenames are curated identifiers.
const (
	titlePhraseBoost    = 0.2
	filenamePhraseBoost = 0.35
	titleTokenWeight    = 0.15
	contentTokenWeight  = 0.08
	filenameTokenWeight = 0.3
)

// minQueryTokenLen drops short words like "a" and "of" from token matching.
const minQueryTokenLen = 2

// RelevanceScore combines similarity with phrase and token matches against
// the document's title, content and filename. The result is clamped to [0, 1].
func RelevanceScore(query string, doc domain.Document, similarity float64) float64 {
	score := similarity

	queryLower := strings.ToLower(query)
	titleLower := strings.ToLower(doc.Title)
	contentLower := strings.ToLower(doc.Content)
	filenameLower := markdown.NormaliseFilename(doc.Filename)

	if strings.Contains(titleLower, queryLower) {
		score += titlePhraseBoost
	}
	if strings.Contains(filenameLower, queryLower) {
		score += filenamePhraseBoost
	}

	var words []string
	for _, w := range strings.Fields(queryLower) {
		if len(w) > minQueryTokenLen {
			words = append(words, w)
		}
	}

	if len(words) > 0 {
		var inTitle, inContent, inFilename int
		for _, w := range words {
			if strings.Contains(titleLower, w) {
				inTitle++
			}
			if strings.Contains(contentLower, w) {
				inContent++
			}
			if strings.Contains(filenameLower, w) {
				inFilename++
			}
		}
		n := float64(len(words))
		score += float64(inTitle) / n * titleTokenWeight
		score += float64(inContent) / n * contentTokenWeight
		score += float64(inFilename) / n * filenameTokenWeight
	}

	return math.Max(0, math.Min(score, 1))
}
