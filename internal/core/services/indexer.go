package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/logger"
	"github.com/facetlayer/flpipeline/internal/normalisers/markdown"
	"github.com/facetlayer/flpipeline/internal/postprocessors/chunker"
)

// headExcerptChars is how much of a multi-chunk document is embedded.
const headExcerptChars = 2000

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService keeps the vector store in sync with a docs directory.
// Documents are processed strictly one at a time.
type IndexService struct {
	store    driven.VectorStore
	source   driven.DocumentSource
	embedder driven.EmbeddingService
	watcher  driven.FileWatcher
	chunker  *chunker.Chunker
}

// NewIndexService creates an index service.
// embedder may be nil: documents are then stored without embeddings.
func NewIndexService(
	store driven.VectorStore,
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
) *IndexService {
	return &IndexService{
		store:    store,
		source:   source,
		embedder: embedder,
		chunker:  chunker.New(),
	}
}

// SetWatcher enables Watch.
func (s *IndexService) SetWatcher(w driven.FileWatcher) {
	s.watcher = w
}

// IndexDocuments indexes every markdown file under root.
// Per-file failures are logged and counted; provider failures abort the run
// because every later file would fail the same way.
func (s *IndexService) IndexDocuments(
	ctx context.Context, root string, opts driving.IndexOptions,
) (domain.IndexReport, error) {
	report := domain.IndexReport{RunID: uuid.New().String()}

	logger.Section("Index Documents")
	logger.Debug("Run %s: root=%s prune=%t", report.RunID, root, opts.Prune)
	defer logger.Timing("index run "+report.RunID, time.Now())

	if s.embedder == nil {
		logger.Warn("No embedding service: documents are stored without embeddings")
	}

	files, err := s.source.List(ctx, root)
	if err != nil {
		return report, fmt.Errorf("listing documents: %w", err)
	}
	logger.Debug("Found %d markdown files", len(files))

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		seen[f.RelPath] = struct{}{}
		report.Scanned++

		outcome, err := s.IndexDocument(ctx, f.Path, f.RelPath)
		if err != nil {
			if domain.IsProviderError(err) || errors.Is(err, context.Canceled) {
				return report, fmt.Errorf("indexing %s: %w", f.RelPath, err)
			}
			logger.Warn("Failed to index %s: %v", f.RelPath, err)
			report.Failed++
			continue
		}

		switch outcome {
		case domain.IndexOutcomeUnchanged:
			report.Skipped++
		default:
			report.Indexed++
		}
	}

	if opts.Prune {
		deleted, err := s.prune(ctx, seen)
		report.Deleted = deleted
		if err != nil {
			return report, err
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return report, fmt.Errorf("reading store stats: %w", err)
	}
	report.Stats = stats

	logger.Info("Run %s: scanned=%d indexed=%d skipped=%d failed=%d deleted=%d",
		report.RunID, report.Scanned, report.Indexed, report.Skipped, report.Failed, report.Deleted)
	return report, nil
}

// prune deletes stored documents whose relative path was not seen on disk.
func (s *IndexService) prune(ctx context.Context, seen map[string]struct{}) (int, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing stored documents: %w", err)
	}

	deleted := 0
	for i := range docs {
		if _, ok := seen[docs[i].Filename]; ok {
			continue
		}
		logger.Debug("Pruning %s", docs[i].Filename)
		if err := s.store.DeleteDocument(ctx, docs[i].Filename); err != nil {
			return deleted, fmt.Errorf("deleting %s: %w", docs[i].Filename, err)
		}
		deleted++
	}
	return deleted, nil
}

// IndexDocument indexes the file at path under relPath.
// An unchanged file is skipped unless its embedding went missing.
func (s *IndexService) IndexDocument(ctx context.Context, path, relPath string) (domain.IndexOutcome, error) {
	raw, err := s.source.ReadFile(ctx, path)
	if err != nil {
		return domain.IndexOutcomeFailed, fmt.Errorf("reading %s: %w", path, err)
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.store.GetDocumentByFilename(ctx, relPath)
	if err != nil {
		return domain.IndexOutcomeFailed, err
	}

	if existing != nil && existing.ContentHash == hash {
		if s.embedder == nil {
			return domain.IndexOutcomeUnchanged, nil
		}
		has, err := s.store.HasEmbedding(ctx, existing.ID)
		if err != nil {
			return domain.IndexOutcomeFailed, err
		}
		if has {
			logger.Debug("Unchanged: %s", relPath)
			return domain.IndexOutcomeUnchanged, nil
		}
		logger.Info("Re-embedding %s (embedding missing)", relPath)
		if err := s.embed(ctx, existing.ID, relPath, existing.Title, existing.Content); err != nil {
			return domain.IndexOutcomeFailed, err
		}
		return domain.IndexOutcomeReembed, nil
	}

	logger.Info("Updating embedding for: %s", relPath)

	content := string(raw)
	title := markdown.ExtractTitle(content, relPath)
	processed := markdown.Preprocess(content)

	id, err := s.store.UpsertDocument(ctx, domain.Document{
		Filename:    relPath,
		Content:     processed,
		Title:       title,
		ContentHash: hash,
	})
	if err != nil {
		return domain.IndexOutcomeFailed, fmt.Errorf("storing %s: %w", relPath, err)
	}

	if s.embedder != nil {
		if err := s.embed(ctx, id, relPath, title, processed); err != nil {
			return domain.IndexOutcomeFailed, err
		}
	}

	if existing == nil {
		return domain.IndexOutcomeCreated, nil
	}
	return domain.IndexOutcomeUpdated, nil
}

// embed stores a single vector for the document: the whole text when it fits
// one chunk, otherwise a head excerpt.
func (s *IndexService) embed(ctx context.Context, id int64, relPath, title, processed string) error {
	vector, err := s.embedder.Embed(ctx, EmbeddingInput(s.chunker, relPath, title, processed))
	if err != nil {
		return err
	}
	if err := s.store.UpsertEmbedding(ctx, id, vector); err != nil {
		return fmt.Errorf("storing embedding for %s: %w", relPath, err)
	}
	return nil
}

// EmbeddingInput builds the text embedded for a document. The filename tokens
// lead so that queries matching the filename land close to the document.
func EmbeddingInput(c *chunker.Chunker, relPath, title, processed string) string {
	prefix := markdown.FilenameTokens(relPath) + "\n" + title + "\n\n"

	chunks := c.Chunk(processed)
	if len(chunks) > 1 {
		return prefix + markdown.HeadExcerpt(processed, headExcerptChars)
	}
	if len(chunks) == 1 {
		return prefix + chunks[0]
	}
	return prefix + processed
}

// Watch re-indexes markdown files under root as they change.
func (s *IndexService) Watch(ctx context.Context, root string, onEvent func(driving.WatchEvent)) error {
	if s.watcher == nil {
		return errors.New("file watching not configured")
	}

	events, err := s.watcher.Watch(ctx, root)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	logger.Info("Watching %s for changes", root)

	for ev := range events {
		if ev.Err != nil {
			logger.Warn("Watcher error: %v", ev.Err)
			continue
		}

		result := driving.WatchEvent{RelPath: ev.File.RelPath}
		switch ev.Kind {
		case driven.FileRemoved:
			if err := s.store.DeleteDocument(ctx, ev.File.RelPath); err != nil {
				result.Outcome = domain.IndexOutcomeFailed
				result.Err = err
			} else {
				result.Outcome = domain.IndexOutcomeDeleted
			}
		default:
			result.Outcome, result.Err = s.IndexDocument(ctx, ev.File.Path, ev.File.RelPath)
		}

		if result.Err != nil {
			logger.Debug("Failed to handle change to %s: %v", result.RelPath, result.Err)
		}
		if onEvent != nil {
			onEvent(result)
		}
	}

	return ctx.Err()
}

// Stats returns store counts.
func (s *IndexService) Stats(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}
