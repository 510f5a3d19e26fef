// Package config loads the walletlink configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HostConfig holds wallet host connection settings.
type HostConfig struct {
	URL            string `yaml:"url"`
	Origin         string `yaml:"origin"`
	ConnectTimeout string `yaml:"connect_timeout"` // duration string (default: "10s")
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Config is the top-level client configuration.
type Config struct {
	Host   HostConfig   `yaml:"host"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Host: HostConfig{
			URL:            "ws://127.0.0.1:8787/ws",
			ConnectTimeout: "10s",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// DefaultPath returns the config file location: $WALLETLINK_CONFIG when set,
// otherwise ~/.walletlink/config.yaml.
func DefaultPath() string {
	if v := os.Getenv("WALLETLINK_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "walletlink.yaml"
	}
	return filepath.Join(home, ".walletlink", "config.yaml")
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies WALLETLINK_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WALLETLINK_HOST_URL"); v != "" {
		cfg.Host.URL = v
	}
	if v := os.Getenv("WALLETLINK_HOST_ORIGIN"); v != "" {
		cfg.Host.Origin = v
	}
	if v := os.Getenv("WALLETLINK_HOST_CONNECT_TIMEOUT"); v != "" {
		cfg.Host.ConnectTimeout = v
	}
	if v := os.Getenv("WALLETLINK_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("WALLETLINK_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("WALLETLINK_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("WALLETLINK_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("WALLETLINK_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// Validate checks cfg for values that cannot work.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Host.URL)
	if err != nil {
		return fmt.Errorf("host.url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return fmt.Errorf("host.url: unsupported scheme %q (want ws or wss)", u.Scheme)
	}

	if cfg.Host.ConnectTimeout != "" {
		d, err := time.ParseDuration(cfg.Host.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("host.connect_timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("host.connect_timeout must be positive, got %s", d)
		}
	}

	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logger.format: unsupported format %q", cfg.Logger.Format)
	}
	return nil
}

// ConnectTimeoutDuration parses Host.ConnectTimeout, falling back to 10s for
// empty or unparseable values.
func (h HostConfig) ConnectTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(h.ConnectTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
