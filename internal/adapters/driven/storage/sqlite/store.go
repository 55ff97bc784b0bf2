package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// pragmas applied to every connection in the pool.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

// Store keeps documents and their embeddings in one SQLite file.
type Store struct {
	db   *sql.DB
	path string
	dims int
}

// NewStore opens or creates the database at dbPath and brings its schema up
// to date. dims is the vector size accepted by UpsertEmbedding; zero means
// domain.DefaultEmbeddingDims.
func NewStore(dbPath string, dims int) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", domain.ErrInvalidInput)
	}
	if dims <= 0 {
		dims = domain.DefaultEmbeddingDims
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath, dims: dims}
	if err := s.upgrade(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Dimensions returns the accepted vector size.
func (s *Store) Dimensions() int { return s.dims }

// Stats counts documents and embeddings.
func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM documents), (SELECT COUNT(*) FROM embedding_map)
	`).Scan(&stats.DocumentCount, &stats.EmbeddingCount)
	if err != nil {
		return stats, fmt.Errorf("counting rows: %w", err)
	}
	return stats, nil
}
