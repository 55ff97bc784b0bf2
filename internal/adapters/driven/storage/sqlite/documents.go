package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

const documentColumns = "id, filename, content, title, content_hash, created_at"

// UpsertDocument inserts doc or updates the row with the same filename.
// An unchanged hash is a no-op; a changed hash also drops the stale embedding.
func (s *Store) UpsertDocument(ctx context.Context, doc domain.Document) (int64, error) {
	if doc.Filename == "" {
		return 0, fmt.Errorf("%w: document filename is required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		id         int64
		storedHash sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, content_hash FROM documents WHERE filename = ?", doc.Filename,
	).Scan(&id, &storedHash)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			"INSERT INTO documents (filename, content, title, content_hash) VALUES (?, ?, ?, ?)",
			doc.Filename, doc.Content, doc.Title, nullString(doc.ContentHash),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting document: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading document id: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("looking up document: %w", err)
	default:
		if storedHash.Valid && storedHash.String == doc.ContentHash {
			return id, nil
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET content = ?, title = ?, content_hash = ? WHERE id = ?",
			doc.Content, doc.Title, nullString(doc.ContentHash), id,
		); err != nil {
			return 0, fmt.Errorf("updating document: %w", err)
		}
		if err := deleteEmbedding(ctx, tx, id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing document: %w", err)
	}
	return id, nil
}

// GetDocument returns the document with id, or nil when it does not exist.
func (s *Store) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %d: %w", id, err)
	}
	return doc, nil
}

// GetDocumentByFilename returns the document stored under filename, or nil.
func (s *Store) GetDocumentByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE filename = ?", filename)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %q: %w", filename, err)
	}
	return doc, nil
}

// DeleteDocument removes the document and its embedding.
func (s *Store) DeleteDocument(ctx context.Context, filename string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE filename = ?", filename).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}

	if err := deleteEmbedding(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return tx.Commit()
}

// ListDocuments returns all documents ordered by filename.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY filename")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc       domain.Document
		content   sql.NullString
		title     sql.NullString
		hash      sql.NullString
		createdAt sql.NullTime
	)
	if err := row.Scan(&doc.ID, &doc.Filename, &content, &title, &hash, &createdAt); err != nil {
		return nil, err
	}
	doc.Content = content.String
	doc.Title = title.String
	doc.ContentHash = hash.String
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	return &doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
