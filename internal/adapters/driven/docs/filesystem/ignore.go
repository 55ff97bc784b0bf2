package filesystem

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName holds project-specific ignore rules in .gitignore syntax.
const IgnoreFileName = ".flpipelineignore"

// defaultIgnorePatterns are always excluded from the docs tree.
var defaultIgnorePatterns = []string{
	".git",
	"node_modules",
}

// IgnoreMatcher decides which paths under a docs root are skipped.
type IgnoreMatcher struct {
	matcher *gitignore.GitIgnore
}

// NewIgnoreMatcher reads .gitignore and .flpipelineignore at root.
// Missing files are fine; the default patterns always apply.
func NewIgnoreMatcher(root string) (*IgnoreMatcher, error) {
	patterns := append([]string(nil), defaultIgnorePatterns...)

	for _, name := range []string{".gitignore", IgnoreFileName} {
		lines, err := readIgnoreFile(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		patterns = append(patterns, lines...)
	}

	return &IgnoreMatcher{matcher: gitignore.CompileIgnoreLines(patterns...)}, nil
}

// Ignored reports whether relPath (slash-separated, relative to root) is excluded.
func (m *IgnoreMatcher) Ignored(relPath string) bool {
	if m == nil || m.matcher == nil || relPath == "" || relPath == "." {
		return false
	}
	return m.matcher.MatchesPath(relPath)
}

// readIgnoreFile returns the non-blank, non-comment lines of path.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
