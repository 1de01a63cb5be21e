// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultLevel is the level used when none is configured.
	DefaultLevel = "INFO"
)

var (
	// ErrConfigNotValid reports a configuration that cannot be parsed.
	ErrConfigNotValid = errors.New("configuration not valid")
	// ErrConfigFile reports a configuration file that cannot be read.
	ErrConfigFile = errors.New("error reading configuration file")
)

// Source supplies the configuration currently in effect.
type Source interface {
	Current() Config
}

// Config holds the call logging settings.
type Config struct {
	Enabled bool   `env:"HTTP_LOGGING_ENABLED" envDefault:"true"`
	Level   string `env:"HTTP_LOGGING_LEVEL" envDefault:"INFO"`
}

// Make sure that Config is a Source.
var _ Source = Config{}

// Default returns the configuration used when nothing is supplied.
func Default() Config {
	return Config{Enabled: true, Level: DefaultLevel}
}

// Current returns the config itself so a plain value can be used as a static Source.
func (c Config) Current() Config {
	return c
}

// FromEnv reads the configuration from the environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotValid, err.Error())
	}
	return cfg, nil
}

// fileConfig mirrors the layout of the YAML file:
//
//	http:
//	  logging:
//	    enabled: true
//	    level: DEBUG
type fileConfig struct {
	HTTP struct {
		Logging struct {
			Enabled *bool  `yaml:"enabled"`
			Level   string `yaml:"level"`
		} `yaml:"logging"`
	} `yaml:"http"`
}

// FromFile reads the configuration from the YAML file at path.
func FromFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigFile, err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode parses a YAML configuration. Missing keys keep their defaults.
func Decode(reader io.Reader) (Config, error) {
	var raw fileConfig
	if err := yaml.NewDecoder(reader).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigNotValid, err)
	}

	cfg := Default()
	if raw.HTTP.Logging.Enabled != nil {
		cfg.Enabled = *raw.HTTP.Logging.Enabled
	}
	if raw.HTTP.Logging.Level != "" {
		cfg.Level = raw.HTTP.Logging.Level
	}
	return cfg, nil
}
