package driven

import (
	"context"

	"github.com/facetlayer/flpipeline/internal/core/domain"
)

// SourceFile is a markdown file found under a docs root.
type SourceFile struct {
	// Path is the file path on disk.
	Path string

	// RelPath is the slash-separated path relative to the root.
	RelPath string
}

// DocumentSource enumerates and reads documentation files.
type DocumentSource interface {
	// List returns every markdown file under root ordered by RelPath.
	List(ctx context.Context, root string) ([]SourceFile, error)

	// ListFiles returns every regular file under root ordered by RelPath.
	ListFiles(ctx context.Context, root string) ([]SourceFile, error)

	// ReadFile returns the raw bytes of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileWatcher reports changes to markdown files under a root.
type FileWatcher interface {
	// Watch streams events until ctx is cancelled. The events channel is
	// closed when watching stops.
	Watch(ctx context.Context, root string) (<-chan FileEvent, error)
}

// FileEventKind classifies a watched change.
type FileEventKind int

// File event kinds.
const (
	FileChanged FileEventKind = iota
	FileRemoved
)

// FileEvent is a single change to a markdown file.
type FileEvent struct {
	File SourceFile
	Kind FileEventKind

	// Err is set when the watcher itself failed; File is empty then.
	Err error
}

// HintSource lists and reads hint files.
type HintSource interface {
	// List expands patterns, parses frontmatter and returns hints sorted by name.
	// Duplicate paths matched by several patterns are listed once.
	List(ctx context.Context, patterns []string) ([]domain.HintInfo, error)

	// ReadFile returns the full hint file, frontmatter included.
	ReadFile(ctx context.Context, path string) (string, error)

	// Read parses one hint file into its metadata and the body after the frontmatter.
	Read(ctx context.Context, path string) (domain.HintInfo, string, error)
}
