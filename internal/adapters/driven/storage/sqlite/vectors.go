package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// UpsertEmbedding replaces the embedding of documentID.
func (s *Store) UpsertEmbedding(ctx context.Context, documentID int64, vector []float32) error {
	if len(vector) != s.dims {
		return fmt.Errorf("%w: embedding has %d dimensions, store expects %d",
			domain.ErrInvalidInput, len(vector), s.dims)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", documentID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %d: %w", documentID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}

	if err := deleteEmbedding(ctx, tx, documentID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO doc_embeddings (embedding) VALUES (?)", encodeVector(vector))
	if err != nil {
		return fmt.Errorf("inserting embedding: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading embedding id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO embedding_map (document_id, embedding_rowid) VALUES (?, ?)", documentID, rowID,
	); err != nil {
		return fmt.Errorf("mapping embedding: %w", err)
	}

	return tx.Commit()
}

// HasEmbedding reports whether documentID has an embedding.
func (s *Store) HasEmbedding(ctx context.Context, documentID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM embedding_map WHERE document_id = ?", documentID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking embedding: %w", err)
	}
	return n > 0, nil
}

// NearestNeighbors scans every stored vector and returns the closest limit hits.
// Equal distances are ordered by document id.
func (s *Store) NearestNeighbors(ctx context.Context, query []float32, limit int) ([]domain.Neighbor, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store expects %d",
			domain.ErrInvalidInput, len(query), s.dims)
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.document_id, e.embedding
		FROM embedding_map m
		JOIN doc_embeddings e ON e.id = m.embedding_rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("scanning embeddings: %w", err)
	}
	defer rows.Close()

	var hits []domain.Neighbor
	for rows.Next() {
		var (
			id   int64
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("reading embedding: %w", err)
		}
		hits = append(hits, domain.Neighbor{
			DocumentID: id,
			Distance:   domain.CosineDistance(query, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// deleteEmbedding drops the mapping and vector row for documentID, if any.
func deleteEmbedding(ctx context.Context, tx *sql.Tx, documentID int64) error {
	var rowID int64
	err := tx.QueryRowContext(ctx,
		"SELECT embedding_rowid FROM embedding_map WHERE document_id = ?", documentID,
	).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up embedding: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM embedding_map WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting embedding mapping: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM doc_embeddings WHERE id = ?", rowID); err != nil {
		return fmt.Errorf("deleting embedding: %w", err)
	}
	return nil
}

// encodeVector packs v as little-endian float32s.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeVector reverses encodeVector. A blob whose length is not a multiple
// of four decodes to nil.
func decodeVector(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v
}
