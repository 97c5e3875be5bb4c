// Package config defines the cyberbot configuration schema.
//
// The file is JSON with camelCase keys. "master" and "admins" are also read
// directly by the permission resolver on every check.
package config

import (
	"time"

	"github.com/wwcxin/cyberbot-new/internal/config/gateway"
)

// PluginsConfig selects plugins and locates their YAML settings.
type PluginsConfig struct {
	// Enabled lists plugin names to load; empty loads every known plugin.
	Enabled   []string `json:"enabled" env:"CYBERBOT_PLUGINS" envSeparator:","`
	ConfigDir string   `json:"configDir" env:"CYBERBOT_PLUGIN_CONFIG_DIR"`
}

func defaultPluginsConfig() PluginsConfig {
	return PluginsConfig{ConfigDir: "plugins"}
}

// IsEnabled reports whether name should be loaded.
func (p PluginsConfig) IsEnabled(name string) bool {
	if len(p.Enabled) == 0 {
		return true
	}
	for _, n := range p.Enabled {
		if n == name {
			return true
		}
	}
	return false
}

// CronConfig controls the plugin scheduler.
type CronConfig struct {
	Timezone string `json:"timezone" env:"CYBERBOT_TIMEZONE"`
}

func defaultCronConfig() CronConfig {
	return CronConfig{Timezone: "Asia/Shanghai"}
}

// Location resolves Timezone, falling back to time.Local.
func (c CronConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `json:"level" env:"CYBERBOT_LOG_LEVEL"`
	Format string `json:"format" env:"CYBERBOT_LOG_FORMAT"` // "text" | "json"
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "text"}
}

// Config is the root configuration object.
type Config struct {
	Master  []int64               `json:"master"`
	Admins  []int64               `json:"admins"`
	Gateway gateway.GatewayConfig `json:"gateway"`
	Plugins PluginsConfig         `json:"plugins"`
	Cron    CronConfig            `json:"cron"`
	Logging LoggingConfig         `json:"logging"`
}

// DefaultConfig returns a Config with all defaults populated.
func DefaultConfig() Config {
	return Config{
		Master:  []int64{},
		Admins:  []int64{},
		Gateway: gateway.DefaultGatewayConfig(),
		Plugins: defaultPluginsConfig(),
		Cron:    defaultCronConfig(),
		Logging: defaultLoggingConfig(),
	}
}
