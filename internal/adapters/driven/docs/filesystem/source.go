// Package filesystem reads and watches the markdown docs tree on local disk.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source enumerates files under a docs root, honouring ignore rules.
type Source struct{}

// NewSource creates a filesystem document source.
func NewSource() *Source {
	return &Source{}
}

// List returns every *.md file under root ordered by relative path. Hidden
// files and directories are skipped, as the watcher skips them.
func (s *Source) List(ctx context.Context, root string) ([]driven.SourceFile, error) {
	return s.walk(ctx, root, false, isMarkdown)
}

// ListFiles returns every regular file under root ordered by relative path,
// hidden ones included.
func (s *Source) ListFiles(ctx context.Context, root string) ([]driven.SourceFile, error) {
	return s.walk(ctx, root, true, func(string) bool { return true })
}

// ReadFile returns the raw bytes of path.
func (s *Source) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *Source) walk(ctx context.Context, root string, hidden bool, keep func(name string) bool) ([]driven.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	ignore, err := NewIgnoreMatcher(root)
	if err != nil {
		return nil, err
	}

	var files []driven.SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (ignore.Ignored(rel) || !hidden && isHidden(rel)) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ignore.Ignored(rel) || !hidden && isHidden(rel) || !keep(d.Name()) {
			return nil
		}

		files = append(files, driven.SourceFile{Path: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// isMarkdown matches names ending in .md, case-insensitively.
func isMarkdown(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".md")
}

// RelPath returns path relative to root with forward slashes.
func RelPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
