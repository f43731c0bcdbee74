package driven

// ConfigStore provides typed access to application configuration.
// Keys use dot notation (e.g. "webhook.url", "classify.internal_domains").
type ConfigStore interface {
	// Get retrieves a raw value. The boolean is false when unset.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when unset.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when unset.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false when unset.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value, or nil when unset.
	GetStringSlice(key string) []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error
}
