package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/glorpus-work/relictum/pkg/errors"
)

// ApplyEnv overrides fields tagged with env from RELICTUM_* variables.
// Unset variables leave the current value untouched.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrConfigEnv, err)
	}
	return nil
}
