package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// ConfigPath returns the configuration file path: $CYBERBOT_CONFIG, or
// cyberbot.json in the working directory.
func ConfigPath() string {
	if p := os.Getenv("CYBERBOT_CONFIG"); p != "" {
		return p
	}
	return "cyberbot.json"
}

// Load reads and parses the config file at path, then applies CYBERBOT_*
// environment overrides. If path is empty, ConfigPath() is used.
// A missing file yields defaults; on parse failure it logs a warning and
// continues with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			slog.Warn("config: failed to parse, using defaults", "path", path, "err", err)
			cfg = DefaultConfig()
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
