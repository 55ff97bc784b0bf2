// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML project configuration (.flpipeline.toml)
//   - PromptStore: user-overridable LLM prompt templates
//   - LoadEnvFile / APIKeysFromEnv: provider credentials from .env and the environment
package file
