package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	// File, when set, receives a copy of every log line through a RotatingFile.
	File *RotateOptions
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// ParseLevel maps a level name to a zerolog level. Unknown names yield info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a new zerolog logger with the given configuration.
// The returned closer releases the log file, if any; it is never nil.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	var output io.Writer = os.Stderr
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: cfg.TimeFormat,
		}
	}

	var closer io.Closer = nopCloser{}
	var fileErr error
	if cfg.File != nil {
		file, err := NewRotatingFile(*cfg.File)
		if err == nil {
			output = zerolog.MultiLevelWriter(output, file)
			closer = file
		}
		fileErr = err
	}

	logger := zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("dir", cfg.File.Dir).Msg("file logging disabled")
	}
	return logger, closer
}

// NewFromEnv creates a logger based on environment variables
// PROMPTCAST_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// PROMPTCAST_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	cfg := DefaultConfig()

	if level := os.Getenv("PROMPTCAST_LOG_LEVEL"); level != "" {
		cfg.Level = ParseLevel(level)
	}

	if format := os.Getenv("PROMPTCAST_LOG_FORMAT"); format == "json" || format == "console" {
		cfg.Format = format
	}

	logger, _ := New(cfg)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
