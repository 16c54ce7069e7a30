// Package config loads tool configuration from the environment and reports
// fatal configuration errors.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every env tag of a configuration struct.
const EnvPrefix = "RANDLAB_"

// ParseEnv loads configuration from RANDLAB_-prefixed environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
