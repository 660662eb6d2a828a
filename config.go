package recommend

const (
	// DefaultLimit is the ranking truncation used when a caller passes a
	// non-positive limit.
	DefaultLimit = 10

	// DefaultMaxHops is the hop cap for shortest-path lookups.
	DefaultMaxHops = 6
)

// Config holds configuration for the Engine.
type Config struct {
	// Limit is the default number of candidates returned by each ranking
	// when the caller passes limit <= 0. If 0, uses DefaultLimit.
	Limit int

	// MaxHops caps shortest-path traversal, counted in edges. If 0, uses
	// DefaultMaxHops.
	MaxHops int

	// JobIndex enables JobsIndexed. If nil, only the brute-force job
	// ranking is available.
	JobIndex JobIndex
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.MaxHops <= 0 {
		c.MaxHops = DefaultMaxHops
	}
}
