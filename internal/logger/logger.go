// Package logger defines the structured logging contract used across the service
// and its slog-backed implementation.
package logger

import "log/slog"

// ComponentKey is the attribute naming the subsystem a log line comes from.
const ComponentKey = "component"

// AppLogger is the structured logger handed to every constructor.
// Arguments after the message are slog key-value pairs.
type AppLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a logger that adds args to every line.
	With(args ...any) AppLogger

	// Component returns a logger tagged with the subsystem name.
	Component(name string) AppLogger
}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogAdapter wraps l, falling back to slog.Default when l is nil.
func NewSlogAdapter(l *slog.Logger) AppLogger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s slogLogger) With(args ...any) AppLogger {
	return slogLogger{l: s.l.With(args...)}
}

func (s slogLogger) Component(name string) AppLogger {
	return slogLogger{l: s.l.With(slog.String(ComponentKey, name))}
}
