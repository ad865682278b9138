package logger

import (
	"io"
	"log/slog"
)

// NewNopLogger returns an AppLogger that discards everything. Intended for tests.
func NewNopLogger() AppLogger {
	return NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
