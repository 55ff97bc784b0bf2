package driven

// ConfigStore provides read access to application configuration.
// Keys use dot notation, e.g. "llm.provider".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// Keys returns every key present, sorted.
	Keys() []string

	// GetString returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat returns 0 if key doesn't exist or isn't a number.
	GetFloat(key string) float64

	// GetStringSlice returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
