// Package logging builds the hclog loggers used by the facade and the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLevel overrides the configured log level.
	EnvLevel = "MODELCARD_LOG_LEVEL"
	// EnvJSON switches output to JSON lines when set to "1".
	EnvJSON = "MODELCARD_JSON_LOG"

	defaultLevel = "warn"
)

// New creates a logger named name writing to output (stderr when nil). The
// level falls back to MODELCARD_LOG_LEVEL and then to "warn".
func New(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = Level()
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(EnvJSON) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Level returns the level configured in the environment.
func Level() string {
	level := strings.TrimSpace(os.Getenv(EnvLevel))
	if level == "" {
		return defaultLevel
	}
	return level
}

// OrNull returns logger, or a logger that discards everything when nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
