package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text output to stdout keeps local
// development readable; structured fields come from call sites.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// Discard returns a logger that drops everything, for tests and optional
// dependencies that were not configured.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
