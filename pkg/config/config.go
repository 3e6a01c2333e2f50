// Package config loads lockgraph settings from a TOML file.
//
// Every field has a sensible default, so running without a config file is
// fully supported. A config file overrides defaults field by field:
//
//	[server]
//	addr = ":9090"
//	max_body_bytes = 10485760
//
//	[log]
//	level = "debug"
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lockgraph/lockgraph/pkg/errors"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 5 << 20 // 5 MiB: generous for any realistic lockfile
	DefaultLogLevel     = "info"
)

// Config holds the application settings.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads the TOML file at path, layered over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values after loading.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	return nil
}
