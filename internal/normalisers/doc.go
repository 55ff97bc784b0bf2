// Package normalisers holds text normalisation shared by the indexer,
// the searchers and the hint selector.
package normalisers
