package driven

// ConfigStore provides access to application configuration. Implementations
// handle persistence (the TOML file under ~/.ricast) and type conversion;
// missing or mistyped keys yield zero values, never errors.
type ConfigStore interface {
	// Get retrieves a raw configuration value and whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when absent.
	GetInt(key string) int

	// GetFloat retrieves a float value, or 0 when absent. Integer-typed
	// values are converted.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, or false when absent.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value, or nil when absent.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
