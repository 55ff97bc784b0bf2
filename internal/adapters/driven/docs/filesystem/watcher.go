package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher streams markdown file changes under a docs root.
type Watcher struct {
	root   string
	ignore *IgnoreMatcher
}

// NewWatcher creates a filesystem watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch adds root and every subdirectory to an fsnotify watcher.
// Directories created later are added as they appear.
func (w *Watcher) Watch(ctx context.Context, root string) (<-chan driven.FileEvent, error) {
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
	w.root = root
	w.ignore = ignore

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := w.addTree(fw, root); err != nil {
		fw.Close()
		return nil, err
	}

	events := make(chan driven.FileEvent)
	go func() {
		defer close(events)
		defer fw.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						if err := w.addTree(fw, ev.Name); err != nil {
							logger.Warn("watching %s: %v", ev.Name, err)
						}
						continue
					}
				}
				change := w.handleFsEvent(ev)
				if change == nil {
					continue
				}
				select {
				case events <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				select {
				case events <- driven.FileEvent{Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// addTree watches dir and every directory below it that List would descend into.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root {
			rel, relErr := RelPath(w.root, path)
			if relErr == nil && (isHidden(rel) || w.ignore.Ignored(rel)) {
				return fs.SkipDir
			}
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// handleFsEvent maps a raw fsnotify event to a markdown change.
// Returns nil for events that do not concern an indexable file.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) *driven.FileEvent {
	if !isMarkdown(filepath.Base(ev.Name)) {
		return nil
	}

	rel, err := RelPath(w.root, ev.Name)
	if err != nil || strings.HasPrefix(rel, "../") || isHidden(rel) || w.ignore.Ignored(rel) {
		return nil
	}

	file := driven.SourceFile{Path: ev.Name, RelPath: rel}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return &driven.FileEvent{File: file, Kind: driven.FileRemoved}
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		return &driven.FileEvent{File: file, Kind: driven.FileChanged}
	default:
		return nil
	}
}
