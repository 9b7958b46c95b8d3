// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the YAML-driven configuration an embedding CLI uses
// to set up a lazyimport.Engine/Loader: import search paths, the cache
// directory, log verbosity, and the import-resolution parallelism bound.
// The core subsystem itself takes no flags or config (spec §6); this
// package exists for cmd/lazyimportctl and other embedders.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape loaded via Load.
type Config struct {
	// ImportPaths lists additional directories searched for modules,
	// analogous to PYTHONPATH.
	ImportPaths []string `yaml:"import_paths"`
	// CacheDir is where cache.Cache stores compiled-artifact entries. Empty
	// disables the cache.
	CacheDir string `yaml:"cache_dir"`
	// LogLevel is one of "debug", "info", "warn", "error"; defaults to
	// "info" if empty or unrecognized.
	LogLevel string `yaml:"log_level"`
	// MaxParallelism bounds concurrent Host.Import calls; zero or negative
	// leaves the Engine's built-in default in place.
	MaxParallelism int64 `yaml:"max_parallelism"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &c, nil
}

// SlogLevel translates LogLevel into a slog.Level, defaulting to
// slog.LevelInfo for an empty or unrecognized value.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
