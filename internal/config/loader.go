package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config for service by layering, low to high precedence:
//  1. defaults (New(service))
//  2. YAML file if ARENA_CONFIG is set
//  3. env vars (prefix ARENA_, e.g. ARENA_DATABASE_URL -> database_url)
func Load(ctx context.Context, service Service) (*Config, error) {
	base := New(service)

	k := koanf.New(".")

	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Underscores are preserved so env keys line up with the koanf tags.
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "arena_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(service); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(service Service) error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch service {
	case Heroes, Villains, Locations:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url must not be empty", ErrInvalidConfig)
		}
		if c.Table == "" {
			return fmt.Errorf("%w: table must not be empty", ErrInvalidConfig)
		}
	case Fights:
		if c.HeroesURL == "" || c.VillainsURL == "" || c.LocationsURL == "" {
			return fmt.Errorf("%w: peer urls must not be empty", ErrInvalidConfig)
		}
	}
	return nil
}
