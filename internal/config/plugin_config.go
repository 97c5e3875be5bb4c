package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPluginConfig decodes <dir>/<name>.yaml into out. Fields absent from the
// file keep the values out already holds, so callers pass their defaults in.
// A missing file is not an error.
func LoadPluginConfig(dir, name string, out any) error {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read plugin config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse plugin config %s: %w", path, err)
	}
	return nil
}

// SavePluginConfig writes v to <dir>/<name>.yaml.
func SavePluginConfig(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plugin config dir: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal plugin config: %w", err)
	}
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write plugin config %s: %w", path, err)
	}
	return nil
}
