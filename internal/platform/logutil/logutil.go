// Package logutil provides nil-safe logger helpers shared by every
// component that accepts a *slog.Logger at construction time.
package logutil

import (
	"io"
	"log/slog"
)

// LevelTrace sits below slog's built-in levels, matching the "trace"
// directive value accepted by DebugLevel.
const LevelTrace = slog.LevelDebug - 4

var noop = slog.New(slog.NewTextHandler(io.Discard, nil))

// Noop returns a logger that discards all output.
func Noop() *slog.Logger { return noop }

// NoopIfNil returns l when non-nil, otherwise a discard logger. Intended
// as the first line in constructors that accept *slog.Logger.
func NoopIfNil(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return noop
}

// ParseLevel maps the DebugLevel directive's string values onto slog
// levels, with "trace" mapped below Debug since slog has no native
// trace level.
func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a JSON-handler logger at the given level, matching the
// bootstrap logger cmd/sslguardd constructs before config has loaded.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
