// Package sqlite provides the SQLite-backed VectorStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database file holds three tables:
//
//   - documents: filename, content, title and content hash per indexed file
//   - doc_embeddings: one float32 vector per row, stored as a little-endian BLOB
//   - embedding_map: links a document to its embedding row
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Databases created before content hashing existed are
// upgraded in place by adding the content_hash column when it is missing.
//
// # Nearest Neighbours
//
// Similarity search is an exact cosine scan over every stored vector. The
// corpus is a project docs tree, so a full scan stays cheap.
//
// # Thread Safety
//
// All operations are thread-safe. Multi-statement writes run in a transaction
// and the database is opened in WAL mode with a busy timeout.
package sqlite
