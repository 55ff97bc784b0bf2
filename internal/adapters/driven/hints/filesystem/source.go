// Package filesystem lists hint files matched by glob patterns on local disk.
//
// Hint files are markdown with an optional YAML frontmatter block:
//
//	---
//	description: How to write integration tests
//	relevant_for: tasks that touch the test harness
//	---
//	body...
package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/logger"
)

const frontmatterFence = "---"

// Ensure Source implements the interface.
var _ driven.HintSource = (*Source)(nil)

// Source reads hint files from disk.
type Source struct{}

// NewSource creates a filesystem hint source.
func NewSource() *Source {
	return &Source{}
}

// List expands every pattern and returns one HintInfo per distinct file,
// sorted by name. Files that cannot be read or parsed are skipped with a warning.
func (s *Source) List(ctx context.Context, patterns []string) ([]domain.HintInfo, error) {
	seen := make(map[string]struct{})
	var hints []domain.HintInfo

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding hint pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, path := range matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}

			info, _, err := s.Read(ctx, path)
			if err != nil {
				logger.Warn("could not process hint file %s: %v", path, err)
				continue
			}
			hints = append(hints, info)
		}
	}

	sort.SliceStable(hints, func(i, j int) bool {
		return strings.ToLower(hints[i].Name) < strings.ToLower(hints[j].Name)
	})
	return hints, nil
}

// ReadFile returns the full content of the hint file at path.
func (s *Source) ReadFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading hint file: %w", err)
	}
	return string(data), nil
}

// Read parses the hint at path into metadata and body.
func (s *Source) Read(ctx context.Context, path string) (domain.HintInfo, string, error) {
	content, err := s.ReadFile(ctx, path)
	if err != nil {
		return domain.HintInfo{}, "", err
	}

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		return domain.HintInfo{}, "", fmt.Errorf("parsing frontmatter of %s: %w", path, err)
	}

	info := domain.HintInfo{
		Name:        HintName(path),
		Description: fm.Description,
		RelevantFor: fm.RelevantFor,
		Path:        path,
	}
	if info.Description == "" {
		info.Description = domain.DefaultHintDescription
	}
	return info, body, nil
}

// HintName is the file name without its .md extension.
func HintName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

// Frontmatter holds the recognised frontmatter keys.
type Frontmatter struct {
	Description string `yaml:"description"`
	RelevantFor string `yaml:"relevant_for"`
}

// ParseFrontmatter splits content into its frontmatter and body.
// Content without an opening and closing fence has no frontmatter.
func ParseFrontmatter(content string) (Frontmatter, string, error) {
	var fm Frontmatter

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterFence+"\n") {
		return fm, content, nil
	}

	rest := normalized[len(frontmatterFence)+1:]
	var block, body string
	switch {
	case strings.HasPrefix(rest, frontmatterFence+"\n"), rest == frontmatterFence:
		body = strings.TrimPrefix(strings.TrimPrefix(rest, frontmatterFence), "\n")
	default:
		end := strings.Index(rest, "\n"+frontmatterFence+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+frontmatterFence) {
				return fm, content, nil
			}
			end = len(rest) - len(frontmatterFence) - 1
		}
		block = rest[:end]
		body = strings.TrimPrefix(rest[end+1+len(frontmatterFence):], "\n")
	}

	if strings.TrimSpace(block) != "" {
		var raw map[string]any
		dec := yaml.NewDecoder(bytes.NewReader([]byte(block)))
		if err := dec.Decode(&raw); err != nil {
			return fm, "", err
		}
		fm.Description = scalarString(raw["description"])
		fm.RelevantFor = scalarString(raw["relevant_for"])
	}

	return fm, body, nil
}

// scalarString renders a YAML scalar; non-scalars and nulls become "".
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
