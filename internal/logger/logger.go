// Package logger builds the application's structured logger
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/findosh/tourdesk/internal/config"
)

// New creates the root logger. Development gets a human readable console
// writer, everything else gets JSON lines on stdout.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "tourdesk").
		Logger()
}
