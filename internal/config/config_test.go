package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadServerFromDefaults(t *testing.T) {
	cfg, err := LoadServerFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Server{
		Addr:            ":8080",
		LogLevel:        "info",
		Prefix:          "form",
		ReadTimeout:     10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadServerFromOverrides(t *testing.T) {
	cfg, err := LoadServerFrom(map[string]string{
		"FORMBIND_ADDR":               "127.0.0.1:9000",
		"FORMBIND_REDIS_ADDR":         "localhost:6379",
		"FORMBIND_REDIS_VOCABULARIES": "colors,sizes",
		"FORMBIND_READ_TIMEOUT":       "1s",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.RedisAddr != "localhost:6379" || cfg.ReadTimeout != time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"colors", "sizes"}, cfg.Vocabularies); diff != "" {
		t.Fatalf("vocabularies mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("FORMBIND_REDIS_DB", "not-an-int")
	err := ParseEnv(&Server{})
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
