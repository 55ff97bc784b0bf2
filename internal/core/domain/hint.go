package domain

// DefaultHintDescription is used when a hint file has no description.
const DefaultHintDescription = "No description available"

// Hint selection defaults.
const (
	DefaultMaxHints        = 5
	DefaultHintTemperature = 0.3
)

// HintInfo is listing metadata for one hint file.
type HintInfo struct {
	// Name is the filename without the .md extension.
	Name string `json:"name"`

	Description string `json:"description"`

	// RelevantFor states when the hint should be surfaced. Optional.
	RelevantFor string `json:"relevant_for,omitempty"`

	// Path is the hint file on disk.
	Path string `json:"path"`
}

// TokenUsage records what a provider call consumed.
type TokenUsage struct {
	Model        string
	InputTokens  int
	OutputTokens int

	// Estimated is true when counts were computed locally rather than reported.
	Estimated bool
}

// Total returns input plus output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// HintSelectionPrompt is the built-in hint selection template. It expects
// {{hints}}, {{max_hints}} and {{request}} placeholders.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const HintSelectionPrompt = `You are a helpful assistant that selects the most relevant hint files for a user's request.

Available hint files:
{{hints}}

Your task:
- Analyze the user's request and return ONLY the hints that are truly relevant
- Pay close attention to the "Relevant for" field - this specifies when each hint should be used
- Return 0-{{max_hints}} hints (fewer is better if others aren't relevant)
- Match the user's task to the hint's "Relevant for" criteria

User's request: {{request}}

Respond with ONLY a JSON array of hint file names (without the .md extension).
Examples: ["hint-name-1", "hint-name-2"] or [] if none are relevant.`
