package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the service logger writing JSON records to stdout.
func New(level string) *slog.Logger {
	return NewWithFormat(os.Stdout, level, "json")
}

// NewWithFormat builds a logger for w. Format "text" selects the text handler,
// anything else produces JSON.
func NewWithFormat(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel converts textual levels into slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
