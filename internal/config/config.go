// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

// Package config loads the service configuration. Sources layer in
// increasing precedence: built-in defaults, a YAML file, AUTHSTORE_*
// environment variables, then command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the full service configuration.
type Config struct {
	Database      Database      `koanf:"database"`
	Observability Observability `koanf:"observability"`
	Log           Log           `koanf:"log"`
	Session       Session       `koanf:"session"`
	Verification  Verification  `koanf:"verification"`
	Sweep         Sweep         `koanf:"sweep"`
}

// Database configures the backing store connection.
type Database struct {
	URL string `koanf:"url"`
}

// Observability configures the metrics and health endpoint listener.
type Observability struct {
	Addr string `koanf:"addr"`
}

// Log configures the structured logger.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Session configures session lifetimes.
type Session struct {
	TTL time.Duration `koanf:"ttl"`
}

// Verification configures verification token lifetimes.
type Verification struct {
	TTL time.Duration `koanf:"ttl"`
}

// Sweep configures the periodic expiry sweep.
type Sweep struct {
	Interval time.Duration `koanf:"interval"`
}

func defaults() map[string]any {
	return map[string]any{
		"observability.addr": "127.0.0.1:9100",
		"log.format":         "json",
		"log.level":          "info",
		"session.ttl":        30 * 24 * time.Hour,
		"verification.ttl":   24 * time.Hour,
		"sweep.interval":     time.Hour,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), AUTHSTORE_* environment variables, and flags (skipped when
// nil). Later sources override earlier ones.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	// AUTHSTORE_DATABASE_URL -> database.url
	envProvider := env.Provider("AUTHSTORE_", ".", func(s string) string {
		key := strings.TrimPrefix(s, "AUTHSTORE_")
		return strings.ReplaceAll(strings.ToLower(key), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		// Flag names use dashes; keys use dots (--database-url -> database.url).
		flagProvider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "."), value
		})
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_MISSING_DATABASE_URL").
			Errorf("database.url is required (or set AUTHSTORE_DATABASE_URL)")
	}
	if c.Observability.Addr == "" {
		return oops.Code("CONFIG_MISSING_OBSERVABILITY_ADDR").
			Errorf("observability.addr cannot be empty")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID_LOG_FORMAT").
			With("format", c.Log.Format).
			Errorf("log.format must be json or text")
	}
	if c.Session.TTL <= 0 {
		return oops.Code("CONFIG_INVALID_SESSION_TTL").
			With("ttl", c.Session.TTL.String()).
			Errorf("session.ttl must be positive")
	}
	if c.Verification.TTL <= 0 {
		return oops.Code("CONFIG_INVALID_VERIFICATION_TTL").
			With("ttl", c.Verification.TTL.String()).
			Errorf("verification.ttl must be positive")
	}
	if c.Sweep.Interval <= 0 {
		return oops.Code("CONFIG_INVALID_SWEEP_INTERVAL").
			With("interval", c.Sweep.Interval.String()).
			Errorf("sweep.interval must be positive")
	}
	return nil
}
