// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

// Package config loads server configuration from a YAML file with
// command-line flag overrides.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full server configuration.
type Config struct {
	// Env is "production" or "development". Development loosens a few
	// behaviors, like echoing reset tokens in API responses.
	Env string `koanf:"env"`

	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	OAuth         OAuthConfig         `koanf:"oauth"`
	Observability ObservabilityConfig `koanf:"observability"`
	Log           LogConfig           `koanf:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `koanf:"addr"`

	// AllowedOrigins are the CORS origins permitted to send credentials.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// OAuthConfig configures the external OAuth gateway.
type OAuthConfig struct {
	GatewayURL string `koanf:"gateway_url"`
}

// ObservabilityConfig configures the metrics/health server.
type ObservabilityConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"` // "json" or "text"
}

// Default returns the configuration used when a key is absent from both the
// file and the flags.
func Default() Config {
	return Config{
		Env: "production",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Observability: ObservabilityConfig{
			Addr: ":9090",
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then flag overrides. A missing file is an error only when a path was
// given explicitly.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	// Defaults go in first so that unset flags never shadow them.
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "load defaults").
			Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	// DATABASE_URL from the environment overrides the file; an explicit
	// --database.url flag still wins below.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		if err := k.Set("database.url", dbURL); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "set database url from env").
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevelopment returns true when the env is development.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the configuration for required values.
func (c Config) Validate() error {
	if c.Env != "production" && c.Env != "development" {
		return oops.Code("CONFIG_INVALID").Errorf("env must be production or development, got %q", c.Env)
	}
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr cannot be empty")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}
