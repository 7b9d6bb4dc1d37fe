package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_ErrorIncludesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")
	logger.Error("boom", "kind", "admin")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["stacktrace"] == nil || entry["stacktrace"] == "" {
		t.Error("expected stacktrace attribute on ERROR record")
	}
	if entry["kind"] != "admin" {
		t.Errorf("expected kind=admin, got %v", entry["kind"])
	}
}

func TestNew_InfoHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "INFO").With("component", "test").Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := entry["stacktrace"]; ok {
		t.Error("INFO record should not carry a stacktrace")
	}
	if entry["component"] != "test" {
		t.Errorf("expected component attr preserved by WithAttrs, got %v", entry["component"])
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "WARN").Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected INFO to be filtered at WARN level, got %s", buf.String())
	}
}
