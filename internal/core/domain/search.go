package domain

// Search defaults.
const (
	DefaultSearchLimit          = 10
	DefaultMinSimilarity        = 0.5
	DefaultLexicalLimit         = 5
	DefaultCommandSearchLimit   = 5
	DefaultCommandMinSimilarity = 0.6
)

// SearchTierName identifies which strategy produced a result.
type SearchTierName string

// Search tiers in fallback order.
const (
	TierSemantic          SearchTierName = "semantic"
	TierStoredLexical     SearchTierName = "stored-lexical"
	TierFilesystemLexical SearchTierName = "filesystem-lexical"
)

// SearchOptions configures a search call.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means the tier default.
	Limit int

	// MinSimilarity discards semantic hits below this cosine similarity.
	// Nil means DefaultMinSimilarity; lexical tiers ignore it.
	MinSimilarity *float64
}

// MinSimilarityOrDefault returns the configured floor or the default.
func (o SearchOptions) MinSimilarityOrDefault() float64 {
	if o.MinSimilarity == nil {
		return DefaultMinSimilarity
	}
	return *o.MinSimilarity
}

// LimitOr returns the configured limit or def when unset.
func (o SearchOptions) LimitOr(def int) int {
	if o.Limit <= 0 {
		return def
	}
	return o.Limit
}

// SearchResult is a ranked document.
type SearchResult struct {
	Document Document

	// Similarity is 1 - cosine distance for semantic hits and 0 for lexical hits.
	Similarity float64

	// Relevance is the score results are ordered by.
	Relevance float64

	// Tier is the strategy that produced the result.
	Tier SearchTierName
}
