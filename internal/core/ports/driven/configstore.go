package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("autosave.delay") that maps onto nested tables.
type ConfigStore interface {
	// Get retrieves a raw value. The boolean reports whether the key exists.
	Get(key string) (any, bool)

	// GetString returns "" when the key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is missing or not an integer.
	GetInt(key string) int

	// GetFloat returns 0 when the key is missing or not numeric.
	GetFloat(key string) float64

	// GetBool returns false when the key is missing or not a boolean.
	GetBool(key string) bool

	// Set stores a value in memory. Call Save to persist it.
	Set(key string, value any) error

	// Unset removes a key so its default applies again.
	Unset(key string) error

	// Keys returns all keys in sorted order.
	Keys() []string

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage, replacing in-memory values.
	Load() error

	// Path returns the configuration file path, or ":memory:" for in-memory stores.
	Path() string
}
