// Package config provides Viper-based configuration loading for botty.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// HotelConfig describes one target hotel server.
type HotelConfig struct {
	// Name is the unique hotel identifier used by the control surface.
	Name string `mapstructure:"name"`
	// WSLink is the websocket endpoint of the hotel's game server.
	WSLink string `mapstructure:"ws_link"`
	// Origin is the Origin header sent during the websocket handshake.
	Origin string `mapstructure:"origin"`
}

// APIConfig holds control-surface HTTP settings.
type APIConfig struct {
	// ListenAddr is the bind address of the HTTP API, e.g. ":8080".
	ListenAddr string `mapstructure:"listen_addr"`
	// AuthToken is the shared secret expected in the x-auth-token header.
	AuthToken string `mapstructure:"auth_token"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
	Hotels  []HotelConfig `mapstructure:"hotels"`
}

// Load reads and validates the configuration file at path.
//
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.API.ListenAddr == "" {
		errs = append(errs, "api.listen_addr must not be empty")
	}
	if c.API.AuthToken == "" {
		errs = append(errs, "api.auth_token must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Sprintf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format))
	}

	seen := make(map[string]bool, len(c.Hotels))
	for i, h := range c.Hotels {
		if h.Name == "" {
			errs = append(errs, fmt.Sprintf("hotels[%d].name must not be empty", i))
		}
		if seen[h.Name] {
			errs = append(errs, fmt.Sprintf("hotels[%d].name %q is duplicated", i, h.Name))
		}
		seen[h.Name] = true
		if !strings.HasPrefix(h.WSLink, "ws://") && !strings.HasPrefix(h.WSLink, "wss://") {
			errs = append(errs, fmt.Sprintf("hotels[%d].ws_link must be a ws:// or wss:// URL, got %q", i, h.WSLink))
		}
		if h.Origin == "" {
			errs = append(errs, fmt.Sprintf("hotels[%d].origin must not be empty", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
