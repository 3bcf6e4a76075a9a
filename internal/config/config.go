// Package config loads the ai-writer configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration document.
//
// Example:
//
//	remote:
//	  url: https://store.example.com
//	  api_key: secret
//	sync:
//	  debounce_ms: 1000
//	cache:
//	  path: /home/me/.cache/ai-writer/session.db
type Config struct {
	Remote RemoteConfig `yaml:"remote"`
	Sync   SyncConfig   `yaml:"sync"`
	Cache  CacheConfig  `yaml:"cache"`
}

// RemoteConfig locates the remote record store. An empty URL means no remote:
// the session runs on the local cache alone.
type RemoteConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// SyncConfig tunes the sync scheduler.
type SyncConfig struct {
	// DebounceMS is the quiet period after the last edit before a sync
	// fires, in milliseconds.
	DebounceMS int `yaml:"debounce_ms"`
}

// CacheConfig locates the session cache database.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// DebounceWindow returns the debounce duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Sync.DebounceMS) * time.Millisecond
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sync:  SyncConfig{DebounceMS: 1000},
		Cache: CacheConfig{Path: defaultCachePath()},
	}
}

// Load reads and validates a configuration file. An empty path yields the
// defaults. Omitted fields fall back to their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Sync.DebounceMS <= 0 {
		return nil, fmt.Errorf("config %s: sync.debounce_ms must be positive, got %d", path, cfg.Sync.DebounceMS)
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = defaultCachePath()
	}

	return cfg, nil
}

// defaultCachePath puts the session database under the user cache directory,
// falling back to the working directory when none is defined.
func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "ai-writer-session.db"
	}
	return filepath.Join(dir, "ai-writer", "session.db")
}
