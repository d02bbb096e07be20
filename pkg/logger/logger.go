// Package logger provides slog-based logging initialization.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/quotidian-org/seedtaxa/pkg/config"
)

// Init initializes the global slog logger from the logging configuration.
// The destination may be "stdout", "stderr" or a file path; files are
// opened in append mode. Invalid values fall back to stderr, Info level
// and text format.
func Init(cfg *config.LogConfig) error {
	var writer io.Writer
	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		file, err := os.OpenFile(
			cfg.Destination,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0644,
		)
		if err != nil {
			return err
		}
		writer = file
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// ParseLevel converts a string log level to slog.Level.
// Valid levels: "debug", "info", "warn", "error" (case-insensitive).
// Invalid levels default to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
