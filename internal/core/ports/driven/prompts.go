package driven

// PromptStore resolves LLM prompt templates by name.
type PromptStore interface {
	Load(name string) (string, error)
}

// Well-known prompt names.
const (
	// PromptHintSelection asks the model to pick relevant hint files.
	// The template expects {{hints}}, {{max_hints}} and {{request}} placeholders.
	PromptHintSelection = "hint_selection"
)

// TokenCounter estimates how many tokens a text consumes.
type TokenCounter interface {
	CountTokens(text string) int
}
