package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates the process logger. It writes text records to stderr so
// stdout stays free for command output, and renames "error" keys to "err".
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown names
// fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
