package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

var builtinPrompts = map[string]string{
	driven.PromptHintSelection: domain.HintSelectionPrompt,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := builtinPrompts[name]
	return p, ok
}

// PromptStore reads prompt overrides from "{dir}/{name}.txt". A missing or
// blank file means the built-in template. Files are read on every Load so a
// running MCP server picks up edits.
type PromptStore struct {
	dir string
}

// NewPromptStore reads overrides from dir. An empty dir disables overrides.
func NewPromptStore(dir string) *PromptStore {
	return &PromptStore{dir: dir}
}

func (s *PromptStore) Dir() string { return s.dir }

// Load returns the template for name.
func (s *PromptStore) Load(name string) (string, error) {
	override, err := s.readOverride(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	if override != "" {
		return override, nil
	}

	if p, ok := builtinPrompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("load prompt %q: %w", name, fs.ErrNotExist)
}

func (s *PromptStore) readOverride(name string) (string, error) {
	if s.dir == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
