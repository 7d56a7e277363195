// Package logging builds the structured phuslu/log loggers shared by the server,
// the admin CLI and the background jobs.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"

	"github.com/ndewijer/Investment-Research-Backend/internal/config"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// New creates a logger writing to stderr at the configured level.
// Format "json" emits one JSON object per line; anything else uses the console writer.
func New(cfg config.LoggingConfig) *log.Logger {
	var writer log.Writer
	if strings.EqualFold(cfg.Format, "json") {
		writer = &log.IOWriter{Writer: os.Stderr}
	} else {
		writer = &log.ConsoleWriter{
			Writer:         os.Stderr,
			ColorOutput:    true,
			EndWithMessage: true,
		}
	}

	return &log.Logger{
		Level:      parseLevel(cfg.Level),
		TimeFormat: timeFormat,
		Writer:     writer,
	}
}

// NewWithOutput creates a JSON logger writing to w. Used by tests that inspect log lines.
func NewWithOutput(level string, w io.Writer) *log.Logger {
	return &log.Logger{
		Level:      parseLevel(level),
		TimeFormat: timeFormat,
		Writer:     &log.IOWriter{Writer: w},
	}
}

// NewSilent creates a logger that discards all output.
func NewSilent() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

func parseLevel(level string) log.Level {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel
	}
	return log.ParseLevel(strings.ToLower(level))
}
