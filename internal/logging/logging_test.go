package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo)
	logger.Info("commit failed", "error", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "err=boom") {
		t.Fatalf("expected err key, got %q", out)
	}
	if strings.Contains(out, "error=") {
		t.Fatalf("error key should be renamed, got %q", out)
	}
}

func TestNewWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelWarn)
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Fatalf("ParseLevel(%q): want %s, got %s", name, want, got)
		}
	}
}
