package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"walletlink/internal/infra/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOpenOutputStdStreams(t *testing.T) {
	w, closer, err := openOutput("stdout")
	if err != nil {
		t.Fatalf("openOutput(stdout): %v", err)
	}
	defer closer()
	if w != os.Stdout {
		t.Error("expected os.Stdout")
	}

	w, closer, err = openOutput("")
	if err != nil {
		t.Fatalf("openOutput(''): %v", err)
	}
	defer closer()
	if w != os.Stderr {
		t.Error("expected os.Stderr for empty output")
	}
}

func TestNewJSONLoggerToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletlink.log")

	log, closer, err := New(config.LoggerConfig{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("session established", "session", "01ABC")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("invalid JSON: %v, output: %s", err, data)
	}
	if entry["msg"] != "session established" {
		t.Errorf("msg = %q", entry["msg"])
	}
	if entry["session"] != "01ABC" {
		t.Errorf("session = %q", entry["session"])
	}
}

func TestNewTextLoggerFiltersLevels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletlink.log")

	log, closer, err := New(config.LoggerConfig{Level: "warn", Format: "text", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Debug("noise")
	log.Warn("pending calls rejected")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "noise") {
		t.Error("debug message should be filtered at warn level")
	}
	if !strings.Contains(out, "pending calls rejected") {
		t.Error("warn message should appear")
	}
}

func TestNewInvalidOutputPath(t *testing.T) {
	_, _, err := New(config.LoggerConfig{Level: "info", Format: "text", Output: "/nonexistent/dir/app.log"})
	if err == nil {
		t.Error("expected error for invalid output path")
	}
}
