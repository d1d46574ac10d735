package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", JSON: true, Output: &buf})
	l.Debug("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected json record, got %q", buf.String())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MODSOURCE_LOG_LEVEL", "warn")
	t.Setenv("MODSOURCE_LOG_JSON", "true")
	o := FromEnv()
	if o.Level != "warn" || !o.JSON {
		t.Fatalf("unexpected options: %+v", o)
	}
}
