package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Host.URL != "ws://127.0.0.1:8787/ws" {
		t.Errorf("Host.URL = %q", cfg.Host.URL)
	}
	if cfg.Host.ConnectTimeoutDuration() != 10*time.Second {
		t.Errorf("ConnectTimeout = %s, want 10s", cfg.Host.ConnectTimeoutDuration())
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "info")
	}
	if cfg.Tracer.Enabled {
		t.Error("tracer should be disabled by default")
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	cfg, err := Load("/tmp/nonexistent-walletlink-12345.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host.URL != Defaults().Host.URL {
		t.Errorf("expected defaults, got Host.URL=%q", cfg.Host.URL)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
host:
  url: "wss://wallet.example.com/link"
  origin: "https://dapp.example"
  connect_timeout: "3s"
logger:
  level: "debug"
  format: "json"
tracer:
  enabled: true
  exporter: "stdout"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host.URL != "wss://wallet.example.com/link" {
		t.Errorf("Host.URL = %q", cfg.Host.URL)
	}
	if cfg.Host.Origin != "https://dapp.example" {
		t.Errorf("Host.Origin = %q", cfg.Host.Origin)
	}
	if cfg.Host.ConnectTimeoutDuration() != 3*time.Second {
		t.Errorf("ConnectTimeout = %s, want 3s", cfg.Host.ConnectTimeoutDuration())
	}
	if cfg.Logger.Format != "json" {
		t.Errorf("Logger.Format = %q", cfg.Logger.Format)
	}
	if !cfg.Tracer.Enabled || cfg.Tracer.Exporter != "stdout" {
		t.Errorf("Tracer = %+v", cfg.Tracer)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("host: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WALLETLINK_HOST_URL", "wss://override.example/ws")
	t.Setenv("WALLETLINK_LOGGER_LEVEL", "error")
	t.Setenv("WALLETLINK_TRACER_ENABLED", "true")

	cfg, err := Load("/tmp/nonexistent-walletlink-12345.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host.URL != "wss://override.example/ws" {
		t.Errorf("Host.URL = %q", cfg.Host.URL)
	}
	if cfg.Logger.Level != "error" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if !cfg.Tracer.Enabled {
		t.Error("tracer should be enabled via env")
	}
}

func TestValidateRejectsHTTPURL(t *testing.T) {
	cfg := Defaults()
	cfg.Host.URL = "https://wallet.example.com"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for non-websocket scheme")
	}
}

func TestValidateRejectsBadTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Host.ConnectTimeout = "soon"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unparseable timeout")
	}

	cfg.Host.ConnectTimeout = "-2s"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestValidateRejectsBadLoggerFormat(t *testing.T) {
	cfg := Defaults()
	cfg.Logger.Format = "xml"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unsupported logger format")
	}
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv("WALLETLINK_CONFIG", "/etc/walletlink/custom.yaml")
	if got := DefaultPath(); got != "/etc/walletlink/custom.yaml" {
		t.Errorf("DefaultPath = %q", got)
	}
}
