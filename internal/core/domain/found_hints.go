package domain

import (
	"fmt"
	"strings"
)

// DefaultHintSeparator joins hints in FoundHints.Concatenated.
const DefaultHintSeparator = "\n\n---\n\n"

// HintReader loads the content of a hint file.
type HintReader func(path string) (string, error)

// HintContent is one selected hint with its file content.
type HintContent struct {
	Name    string
	Content string
}

// FoundHints is the ordered result of a hint selection.
// Content is read from the hint files on demand.
type FoundHints struct {
	names []string
	paths map[string]string
	read  HintReader
	usage *TokenUsage
}

// NewFoundHints binds names to the files they were listed from.
// Every name must have an entry in paths.
func NewFoundHints(names []string, paths map[string]string, read HintReader, usage *TokenUsage) *FoundHints {
	return &FoundHints{
		names: names,
		paths: paths,
		read:  read,
		usage: usage,
	}
}

// Names returns the selected hint names in relevance order.
func (f *FoundHints) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Count returns the number of selected hints.
func (f *FoundHints) Count() int {
	return len(f.names)
}

// HasHints reports whether anything was selected.
func (f *FoundHints) HasHints() bool {
	return len(f.names) > 0
}

// Path returns the file a selected hint was loaded from.
func (f *FoundHints) Path(name string) (string, bool) {
	p, ok := f.paths[name]
	return p, ok
}

// Content returns the full file content of a selected hint.
func (f *FoundHints) Content(name string) (string, error) {
	p, ok := f.paths[name]
	if !ok {
		return "", fmt.Errorf("hint %q: %w", name, ErrNotFound)
	}
	if f.read == nil {
		return "", fmt.Errorf("hint %q: no reader configured", name)
	}
	return f.read(p)
}

// AllContents reads every selected hint, keeping relevance order.
func (f *FoundHints) AllContents() ([]HintContent, error) {
	out := make([]HintContent, 0, len(f.names))
	for _, name := range f.names {
		content, err := f.Content(name)
		if err != nil {
			return nil, err
		}
		out = append(out, HintContent{Name: name, Content: content})
	}
	return out, nil
}

// Concatenated renders every hint as "# name\n\ncontent" joined by sep.
// An empty sep means DefaultHintSeparator.
func (f *FoundHints) Concatenated(sep string) (string, error) {
	if sep == "" {
		sep = DefaultHintSeparator
	}
	hints, err := f.AllContents()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = "# " + h.Name + "\n\n" + h.Content
	}
	return strings.Join(parts, sep), nil
}

// TokenUsage returns the usage of the selection call, or nil when no call was made.
func (f *FoundHints) TokenUsage() *TokenUsage {
	return f.usage
}
