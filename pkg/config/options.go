package config

import (
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabasePath sets the path of the collection SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records per bulk insert for
// batched writes.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptTaxonomyKingdomID sets the kingdom identifier the collection is scoped to.
func OptTaxonomyKingdomID(i int64) Option {
	return func(c *Config) {
		if isValidInt("Kingdom ID", int(i)) {
			c.Taxonomy.KingdomID = i
		}
	}
}

// OptTaxonomyLanguages sets the vernacular languages aggregated for display.
func OptTaxonomyLanguages(ss []string) Option {
	return func(c *Config) {
		if len(ss) > 0 {
			c.Taxonomy.Languages = ss
		}
	}
}

// OptLogFormat sets the log output format ('json' or 'text').
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "json", "text":
			c.Log.Format = s
		default:
			gn.Warn("Ignoring invalid Log Format <em>%s</em>", s)
		}
	}
}

// OptLogLevel sets the logging level.
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "debug", "info", "warn", "error":
			c.Log.Level = s
		default:
			gn.Warn("Ignoring invalid Log Level <em>%s</em>", s)
		}
	}
}

// OptLogDestination sets where log records are written.
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Log Destination", s) {
			c.Log.Destination = s
		}
	}
}

func isValidString(field, s string) bool {
	if s == "" {
		gn.Warn("Ignoring empty value for %s", field)
		return false
	}
	return true
}

func isValidInt(field string, i int) bool {
	if i <= 0 {
		gn.Warn("Ignoring non-positive value for %s", field)
		return false
	}
	return true
}
