package services

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// Lexical term weights per field.
const (
	lexicalFilenameWeight = 3
	lexicalTitleWeight    = 2
	lexicalContentWeight  = 1
)

var termSplit = regexp.MustCompile(`[^a-z0-9]+`)

// QueryTerms returns the unique lower-cased alphanumeric terms of query
// longer than two characters, in first-seen order.
func QueryTerms(query string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, t := range termSplit.Split(strings.ToLower(query), -1) {
		if len(t) <= minQueryTokenLen {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	return terms
}

// LexicalScore counts term hits: 3 per filename hit, 2 per title hit and 1 per
// content hit, plus a length bonus of max(0, 2 - log10(max(100, len(content)))).
func LexicalScore(terms []string, filename, title, content string) float64 {
	fn := strings.ToLower(filename)
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	score := 0.0
	for _, t := range terms {
		if strings.Contains(fn, t) {
			score += lexicalFilenameWeight
		}
		if strings.Contains(titleLower, t) {
			score += lexicalTitleWeight
		}
		if strings.Contains(contentLower, t) {
			score += lexicalContentWeight
		}
	}

	score += math.Max(0, 2-math.Log10(math.Max(100, float64(len(contentLower)))))
	return score
}

// RankLexical scores docs against query and returns the best limit with a
// positive score. Ties are ordered by filename.
func RankLexical(query string, docs []domain.Document, limit int, tier domain.SearchTierName) []domain.SearchResult {
	terms := QueryTerms(query)

	results := make([]domain.SearchResult, 0, len(docs))
	for i := range docs {
		score := LexicalScore(terms, docs[i].Filename, docs[i].Title, docs[i].Content)
		if score <= 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Document:  docs[i],
			Relevance: score,
			Tier:      tier,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Document.Filename < results[j].Document.Filename
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
