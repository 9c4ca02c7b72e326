// Package config loads engine configuration from an optional YAML file
// with sensible defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full engine configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Paths   PathsConfig   `mapstructure:"paths"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig controls mutation behavior.
type EngineConfig struct {
	// TokenPolicy is "clamp" (counts floored at zero) or "strict"
	// (negative counts persist and the validator reports them).
	TokenPolicy string `mapstructure:"token_policy"`
	// DefaultOwner names the discard-pile owner used when a discard does
	// not specify one.
	DefaultOwner string `mapstructure:"default_owner"`
}

// PathsConfig locates the working files.
type PathsConfig struct {
	State   string `mapstructure:"state"`
	Catalog string `mapstructure:"catalog"`
}

// Load reads configuration from the given file path. An empty path uses
// defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("engine.token_policy", "clamp")
	v.SetDefault("engine.default_owner", "ranger")
	v.SetDefault("paths.state", "state.json")
	v.SetDefault("paths.catalog", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Engine.TokenPolicy != "clamp" && cfg.Engine.TokenPolicy != "strict" {
		return nil, fmt.Errorf("engine.token_policy must be clamp or strict, got %q", cfg.Engine.TokenPolicy)
	}
	return &cfg, nil
}
