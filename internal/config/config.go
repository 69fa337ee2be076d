// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads pidkeep configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pidkeep configuration.
type Config struct {
	// Dir is the directory holding pid files.
	Dir string `yaml:"dir,omitempty"`

	// Programs are the logical program names to supervise.
	Programs []string `yaml:"programs,omitempty"`

	Log   LogConfig   `yaml:"log,omitempty"`
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Format sets the output format (json, text).
	Format string `yaml:"format,omitempty"`
}

// WatchConfig controls the watch-mode reaper.
type WatchConfig struct {
	// DebounceWindow is how long to wait after a directory event before
	// rescanning, coalescing bursts of file churn.
	DebounceWindow time.Duration `yaml:"debounce_window,omitempty"`

	// SweepInterval is the period of the fallback full sweep. Directory
	// events can be missed; the sweep bounds how long a stale record
	// survives regardless.
	SweepInterval time.Duration `yaml:"sweep_interval,omitempty"`

	// AuditLog is the path of the JSONL reap audit log. Empty disables
	// audit logging.
	AuditLog string `yaml:"audit_log,omitempty"`
}

// Defaults applied to zero-valued fields after loading.
const (
	DefaultDir            = "/var/run"
	DefaultDebounceWindow = 500 * time.Millisecond
	DefaultSweepInterval  = time.Minute
)

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns the default config file location,
// ~/.config/pidkeep/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pidkeep", "config.yaml")
}

// Load reads the configuration from path. An empty path falls back to
// DefaultPath; a missing file at the default location yields defaults,
// while an explicitly given path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dir == "" {
		c.Dir = DefaultDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Watch.DebounceWindow <= 0 {
		c.Watch.DebounceWindow = DefaultDebounceWindow
	}
	if c.Watch.SweepInterval <= 0 {
		c.Watch.SweepInterval = DefaultSweepInterval
	}
}
