// Package logger builds the zerolog logger shared by the CLI and servers.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level  string    // trace, debug, info, warn, error
	Pretty bool      // human-readable console output
	Output io.Writer // defaults to os.Stderr
}

// New creates a timestamped logger and installs it as the global logger.
// Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = l
	return l
}
