// Package config loads process configuration from an optional YAML file with
// ENDORSER_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr           string  `mapstructure:"listen_addr"`
	ExpirationTTLSeconds int64   `mapstructure:"expiration_ttl_seconds"`
	KeyFile              string  `mapstructure:"key_file"`
	RateLimitRPS         float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst       int     `mapstructure:"rate_limit_burst"`
	LogLevel             string  `mapstructure:"log_level"`
}

// Load reads path (optional when empty: env and defaults only) and applies
// ENDORSER_* environment overrides, e.g. ENDORSER_KEY_FILE.
func Load(path string) (Config, error) {
	v := viper.New()
	// Every key needs a default registered so AutomaticEnv can surface it
	// through Unmarshal.
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("key_file", "")
	v.SetDefault("expiration_ttl_seconds", 60)
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 1)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("ENDORSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ExpirationTTLSeconds <= 0 {
		return errors.New("expiration_ttl_seconds must be positive")
	}
	if c.KeyFile == "" {
		return errors.New("key_file is required")
	}
	return nil
}
