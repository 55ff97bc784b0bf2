package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/facetlayer/flpipeline/internal/core/domain"
	"github.com/facetlayer/flpipeline/internal/core/ports/driven"
	"github.com/facetlayer/flpipeline/internal/core/ports/driving"
	"github.com/facetlayer/flpipeline/internal/logger"
)

// jsonArray spans from the first '[' to the last ']' of a response.
var jsonArray = regexp.MustCompile(`\[[\s\S]*\]`)

// Ensure HintService implements the interface.
var _ driving.HintService = (*HintService)(nil)

// HintService lists hint files and asks an LLM which of them apply to a task.
type HintService struct {
	source   driven.HintSource
	llm      driven.LLMService
	prompts  driven.PromptStore
	counter  driven.TokenCounter
	patterns []string
}

// NewHintService creates a hint service over the files matched by patterns.
// llm may be nil, in which case Select reports ErrLLMUnavailable.
func NewHintService(source driven.HintSource, llm driven.LLMService, patterns []string) *HintService {
	return &HintService{
		source:   source,
		llm:      llm,
		patterns: patterns,
	}
}

// SetPromptStore overrides the built-in selection prompt.
func (s *HintService) SetPromptStore(p driven.PromptStore) {
	s.prompts = p
}

// SetTokenCounter enables token estimates when the provider reports none.
func (s *HintService) SetTokenCounter(c driven.TokenCounter) {
	s.counter = c
}

// Patterns returns the glob patterns hints are listed from.
func (s *HintService) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// List returns every hint sorted by name.
func (s *HintService) List(ctx context.Context) ([]domain.HintInfo, error) {
	return s.source.List(ctx, s.patterns)
}

// Get returns the hint called name.
func (s *HintService) Get(ctx context.Context, name string) (domain.HintInfo, string, error) {
	hints, err := s.List(ctx)
	if err != nil {
		return domain.HintInfo{}, "", err
	}
	for _, h := range hints {
		if h.Name == name {
			return s.source.Read(ctx, h.Path)
		}
	}
	return domain.HintInfo{}, "", fmt.Errorf("hint %q: %w", name, domain.ErrNotFound)
}

// ProviderName names the LLM provider.
func (s *HintService) ProviderName() string {
	if s.llm == nil {
		return ""
	}
	return s.llm.ProviderName()
}

// IsAvailable reports whether the LLM provider can serve requests.
func (s *HintService) IsAvailable(ctx context.Context) bool {
	return s.llm != nil && s.llm.IsAvailable(ctx)
}

// Select asks the LLM which hints apply to text. The model's ordering is kept,
// names it invents are dropped and the result is capped at MaxHints.
func (s *HintService) Select(ctx context.Context, text string, opts driving.SelectOptions) (*domain.FoundHints, error) {
	logger.Section("Hint Selection")

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}

	maxHints := opts.MaxHints
	if maxHints <= 0 {
		maxHints = domain.DefaultMaxHints
	}
	temperature := domain.DefaultHintTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	candidates, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing hints: %w", err)
	}
	logger.Debug("%d candidate hints", len(candidates))

	reader := s.reader(ctx)
	if len(candidates) == 0 {
		return domain.NewFoundHints(nil, nil, reader, nil), nil
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	prompt, err := s.buildPrompt(candidates, text, maxHints)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Model:       opts.Model,
		Temperature: temperature,
	})
	if err != nil {
		if !domain.IsProviderError(err) {
			err = domain.NewProviderError(s.llm.ProviderName(), "generate", err)
		}
		return nil, err
	}
	logger.Timing("hint selection", start)
	logger.Debug("Raw selection response: %s", res.Text)

	picked, err := ParseHintSelection(res.Text)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(candidates))
	for _, c := range candidates {
		paths[c.Name] = c.Path
	}

	names := make([]string, 0, maxHints)
	selectedPaths := make(map[string]string)
	for _, name := range picked {
		p, ok := paths[name]
		if !ok {
			logger.Debug("Dropping unknown hint %q", name)
			continue
		}
		if _, dup := selectedPaths[name]; dup {
			continue
		}
		selectedPaths[name] = p
		names = append(names, name)
		if len(names) == maxHints {
			break
		}
	}

	usage := s.usage(opts.Model, prompt, res)
	logger.Info("Selected %d hints", len(names))
	return domain.NewFoundHints(names, selectedPaths, reader, usage), nil
}

// buildPrompt renders the candidate listing into the selection template.
func (s *HintService) buildPrompt(candidates []domain.HintInfo, text string, maxHints int) (string, error) {
	template := domain.HintSelectionPrompt
	if s.prompts != nil {
		t, err := s.prompts.Load(driven.PromptHintSelection)
		if err != nil {
			return "", fmt.Errorf("loading selection prompt: %w", err)
		}
		template = t
	}

	return strings.NewReplacer(
		"{{hints}}", FormatHintListing(candidates),
		"{{max_hints}}", strconv.Itoa(maxHints),
		"{{request}}", text,
	).Replace(template), nil
}

// usage prefers provider-reported counts and falls back to local estimates.
func (s *HintService) usage(requestedModel, prompt string, res *driven.GenerateResult) *domain.TokenUsage {
	model := res.Model
	if model == "" {
		model = requestedModel
	}

	if res.InputTokens > 0 || res.OutputTokens > 0 {
		return &domain.TokenUsage{
			Model:        model,
			InputTokens:  res.InputTokens,
			OutputTokens: res.OutputTokens,
		}
	}
	if s.counter == nil {
		return nil
	}
	return &domain.TokenUsage{
		Model:        model,
		InputTokens:  s.counter.CountTokens(prompt),
		OutputTokens: s.counter.CountTokens(res.Text),
		Estimated:    true,
	}
}

// reader loads hint files after Select has returned.
func (s *HintService) reader(ctx context.Context) domain.HintReader {
	ctx = context.WithoutCancel(ctx)
	return func(path string) (string, error) {
		return s.source.ReadFile(ctx, path)
	}
}

// FormatHintListing renders candidates as a numbered list:
//
//  1. name - description
//     Relevant for: ...
func FormatHintListing(candidates []domain.HintInfo) string {
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		line := fmt.Sprintf("%d. %s - %s", i+1, c.Name, c.Description)
		if c.RelevantFor != "" {
			line += "\n   Relevant for: " + c.RelevantFor
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// ParseHintSelection decodes the bracketed JSON array in a model response.
func ParseHintSelection(response string) ([]string, error) {
	match := jsonArray.FindString(response)
	if match == "" {
		return nil, &domain.SelectionParseError{
			Response: response,
			Err:      errors.New("no JSON array found in response"),
		}
	}

	var names []string
	if err := json.Unmarshal([]byte(match), &names); err != nil {
		return nil, &domain.SelectionParseError{Response: response, Err: err}
	}
	return names, nil
}

// HintPatterns returns the glob patterns for the default hints directory plus
// every configured hint path. Paths ending in .md are used as they are; other
// paths match every markdown file below them. A leading ~ is the home directory.
func HintPatterns(cfg domain.Config) []string {
	var patterns []string
	if cfg.Hints.DefaultDir != "" {
		patterns = append(patterns, filepath.Join(cfg.Resolve(expandHome(cfg.Hints.DefaultDir)), "**", "*.md"))
	}

	for _, p := range cfg.Hints.Paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = cfg.Resolve(expandHome(p))
		if strings.HasSuffix(p, ".md") {
			patterns = append(patterns, p)
			continue
		}
		patterns = append(patterns, filepath.Join(p, "**", "*.md"))
	}
	return patterns
}

// expandHome replaces a leading "~" or "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
