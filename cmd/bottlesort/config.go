package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"svw.info/bottlesort/internal/ports"
)

// Config carries the session-layer settings. Everything here is outside the
// engine: the engine itself takes only states, seeds, and budgets.
type Config struct {
	Addr      string `yaml:"addr" validate:"omitempty,hostname_port"`
	DataDir   string `yaml:"dataDir" validate:"required"`
	MaxNodes  int    `yaml:"maxNodes" validate:"gt=0"`
	MaxMillis int64  `yaml:"maxMillis" validate:"gt=0"`
}

func defaultConfig() Config {
	return Config{
		Addr:      ":8080",
		DataDir:   "./data",
		MaxNodes:  200_000,
		MaxMillis: 1000,
	}
}

// loadConfig merges an optional YAML file over the defaults and validates
// the result.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) budget() ports.Budget {
	return ports.Budget{
		MaxNodes: c.MaxNodes,
		MaxTime:  time.Duration(c.MaxMillis) * time.Millisecond,
	}
}
