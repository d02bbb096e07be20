// Package config provides configuration management for seedtaxa.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in seedtaxa.yaml)
package config

// Config represents the complete seedtaxa configuration.
type Config struct {
	// Database contains settings for the collection database file.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Taxonomy contains settings that scope taxonomy queries.
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	// Path is the filesystem path of the collection SQLite database.
	Path string `mapstructure:"path" yaml:"path"`

	// BatchSize defines the number of records per bulk insert for
	// batched writes such as germination-code assignment.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// TaxonomyConfig scopes taxonomy queries to the kingdom of interest and
// controls which vernacular names are aggregated.
type TaxonomyConfig struct {
	// KingdomID is the reference database's identifier of the kingdom the
	// collection tracks. The ITIS identifier for Plantae is 3.
	KingdomID int64 `mapstructure:"kingdom_id" yaml:"kingdom_id"`

	// Languages lists vernacular languages included when common names are
	// aggregated for display.
	Languages []string `mapstructure:"languages" yaml:"languages"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
	// Destination can be 'stdout', 'stderr' or a log file path.
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "seedcollection.sqlite",
			BatchSize: 500,
		},
		Taxonomy: TaxonomyConfig{
			KingdomID: 3, // ITIS Plantae
			Languages: []string{"English", "unspecified"},
		},
		Log: LogConfig{
			Format:      "text",
			Level:       "info",
			Destination: "stderr",
		},
	}
}

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for seedtaxa.yaml.
// Used for round-tripping seedtaxa.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	if s := c.Database.Path; s != "" {
		res = append(res, OptDatabasePath(s))
	}
	if i := c.Database.BatchSize; i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}
	if i := c.Taxonomy.KingdomID; i > 0 {
		res = append(res, OptTaxonomyKingdomID(i))
	}
	if ss := c.Taxonomy.Languages; len(ss) > 0 {
		res = append(res, OptTaxonomyLanguages(ss))
	}
	if s := c.Log.Format; s != "" {
		res = append(res, OptLogFormat(s))
	}
	if s := c.Log.Level; s != "" {
		res = append(res, OptLogLevel(s))
	}
	if s := c.Log.Destination; s != "" {
		res = append(res, OptLogDestination(s))
	}
	return res
}
