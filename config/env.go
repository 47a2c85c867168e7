package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every tunable override in the environment
const EnvPrefix = "SHADEBLADE_"

// ParseEnv loads configuration overrides from environment variables.
// Fields whose variables are unset keep their current values.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load layers persisted overrides and then the environment on top of Default.
// store may be nil.
func Load(store *Store) (*Config, error) {
	c := Default()
	if store != nil {
		if err := store.Load(c); err != nil {
			return nil, fmt.Errorf("load tunables: %w", err)
		}
	}
	if err := ParseEnv(c); err != nil {
		return nil, err
	}
	return c, nil
}
