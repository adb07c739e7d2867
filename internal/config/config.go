// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

// Package config loads service configuration from an optional YAML file
// and command-line flags. Flags override file values; flag defaults fill
// anything neither source sets.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the resolved service configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// MetricsConfig holds observability endpoint settings.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// RegisterFlags declares the configuration flags with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database.url", "postgres://localhost:5432/loreforge?sslmode=disable", "PostgreSQL connection URL")
	fs.String("log.format", "json", "log format: json or text")
	fs.String("metrics.addr", "127.0.0.1:9200", "observability listen address")
}

// Load resolves configuration from the YAML file at path (skipped when
// empty or missing) and the given flag set.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}
	return &cfg, nil
}
