// Package config reads stylefind config files without the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/model"
)

// canonicalKeys maps squashed key spellings (lower case, no separators) to
// the config file keys.
var canonicalKeys = func() map[string]string {
	keys := []string{
		"base_url", "request_timeout", "rate_limit", "user_agent",
		"cache_backend", "cache_path", "cache_ttl", "cache_max_bytes",
		"cache_write_delay", "cache_cleanup_delay", "self_scheme", "self_name",
		"installed_path", "watch_installed", "title", "items_per_page",
		"fade_in_threshold", "terminal_mode", "min_width", "min_height",
		"log_level", "metrics_addr",
	}
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[normalizeKeyVariant(k)] = k
	}
	return m
}()

// GetConfigPaths returns the config directory paths in priority order
// prefers ~/.config over macos application support dir
func GetConfigPaths(profile string) []string {
	var paths []string

	if profile != "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(homeDir, ".config", constant.ProjectName, profile))
		}
		if configDir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(configDir, constant.ProjectName, profile))
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", constant.ProjectName))
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, constant.ProjectName))
	}

	return paths
}

// Load returns the defaults overlaid with the first config.yaml found for
// profile. Keys may use any of snake_case, camelCase, kebab-case or
// PascalCase; no file at all yields the defaults.
func Load(profile string) (*model.Config, error) {
	for _, dir := range GetConfigPaths(profile) {
		configPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if data, err = normalizeConfig(data); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}

		cfg := model.DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		return cfg, nil
	}
	return model.DefaultConfig(), nil
}

func normalizeConfig(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}

	normalized := make(map[string]interface{}, len(raw))
	seen := make(map[string]string, len(raw))

	for key, value := range raw {
		canonical, ok := canonicalKeys[normalizeKeyVariant(key)]
		if !ok {
			return nil, fmt.Errorf("unknown config key %q", key)
		}
		if previous, exists := seen[canonical]; exists && previous != key {
			return nil, fmt.Errorf("duplicate config keys %q and %q resolve to %q", previous, key, canonical)
		}
		seen[canonical] = key
		normalized[canonical] = value
	}

	return yaml.Marshal(normalized)
}

func normalizeKeyVariant(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, " ", "")
	return key
}
