package domain

import "time"

// Document is a markdown file stored in the vector store.
type Document struct {
	// ID is the store-assigned surrogate key.
	ID int64 `json:"id"`

	// Filename is the path relative to the indexed root, using forward slashes.
	// It is unique across the store.
	Filename string `json:"filename"`

	// Content is the preprocessed full text.
	Content string `json:"content"`

	// Title is derived from the first heading or the filename.
	Title string `json:"title"`

	// ContentHash is the hex SHA-256 digest of the raw file bytes.
	ContentHash string `json:"content_hash"`

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time `json:"created_at"`
}

// Neighbor is a single nearest-neighbour hit.
type Neighbor struct {
	DocumentID int64

	// Distance is the cosine distance in [0, 2]; smaller is closer.
	Distance float64
}

// Similarity converts the cosine distance to a similarity.
func (n Neighbor) Similarity() float64 {
	return 1 - n.Distance
}

// StoreStats reports document and embedding counts independently.
// A mismatch means some documents are waiting to be re-embedded.
type StoreStats struct {
	DocumentCount  int `json:"document_count"`
	EmbeddingCount int `json:"embedding_count"`
}

// Drift returns the number of documents without an embedding.
func (s StoreStats) Drift() int {
	return s.DocumentCount - s.EmbeddingCount
}

// IndexOutcome describes what happened to a single file during indexing.
type IndexOutcome string

// Index outcomes.
const (
	IndexOutcomeCreated   IndexOutcome = "created"
	IndexOutcomeUpdated   IndexOutcome = "updated"
	IndexOutcomeUnchanged IndexOutcome = "unchanged"
	IndexOutcomeReembed   IndexOutcome = "reembedded"
	IndexOutcomeDeleted   IndexOutcome = "deleted"
	IndexOutcomeFailed    IndexOutcome = "failed"
)

// IndexReport summarises an indexing run.
type IndexReport struct {
	// RunID identifies the run in verbose logs.
	RunID string

	Scanned int
	Indexed int
	Skipped int
	Failed  int
	Deleted int

	// Stats are the store counts after the run.
	Stats StoreStats
}
