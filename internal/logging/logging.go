// Package logging builds the slog.Logger used by cguard.
//
// Format is "text" (default, for terminals and hook output) or "json".
// Level is one of debug, info, warn, error; unknown values mean warn so a
// pre-commit hook stays quiet unless asked otherwise.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
