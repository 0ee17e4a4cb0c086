package logger

import (
	"log/slog"
	"os"
)

// New creates a structured JSON logger writing to stdout, suitable for the
// API daemon where logs are scraped by an aggregator.
func New() *slog.Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a JSON logger with the given minimum level.
func NewWithLevel(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// NewCLI creates a plain-text logger writing to stderr so that report tables
// printed to stdout stay machine-readable.
func NewCLI() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}
