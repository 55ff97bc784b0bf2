// Package driven declares the infrastructure the core calls out to.
//
// VectorStore, DocumentSource, HintSource and ConfigStore are always wired.
// The rest may be nil and the core degrades:
//
//   - EmbeddingService: search drops to the lexical tiers.
//   - LLMService: hint selection reports the provider as unavailable.
//   - PromptStore: the built-in selection prompt is used.
//   - TokenCounter: usage comes only from provider-reported counts.
//   - FileWatcher: index-docs --watch is unavailable.
package driven
