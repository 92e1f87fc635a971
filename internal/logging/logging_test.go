package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelWarn,
		"":      slog.LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpenWritesJSONAtLevel(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(Options{Level: "info", Dir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Debug("hidden")
	l.Info("request", "method", "GET")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "request" || rec["method"] != "GET" {
		t.Fatalf("record = %v", rec)
	}
}

func TestVerboseFansOutToStderr(t *testing.T) {
	var stderr bytes.Buffer
	l, err := Open(Options{Level: "error", Dir: t.TempDir(), Verbose: true, Stderr: &stderr})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	l.With("component", "api").Info("calling backend")
	if !strings.Contains(stderr.String(), "calling backend") || !strings.Contains(stderr.String(), "component=api") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	data, _ := os.ReadFile(l.Path)
	if strings.Contains(string(data), "calling backend") {
		t.Fatalf("info record should not reach an error-level file")
	}
}

func TestCacheDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if got := CacheDir(); got != "/tmp/xdg-cache/wishline" {
		t.Fatalf("CacheDir = %q", got)
	}
}
