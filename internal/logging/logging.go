// Package logging provides the structured logger shared by all three
// webindex processes.
package logging

import (
	"log/slog"
	"os"
)

// New builds a JSON logger at the given level, writing to stdout.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// ForWorker returns a child logger tagged with the worker's index.
func ForWorker(logger *slog.Logger, index int) *slog.Logger {
	return logger.With("worker", index)
}
