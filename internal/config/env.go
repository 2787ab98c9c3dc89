package config

import (
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
)

// CLIConfig drives the batch solver.
type CLIConfig struct {
	Deals      int    `env:"SOLITAIRE_DEALS,default=100"`
	FirstSeed  uint64 `env:"SOLITAIRE_FIRST_SEED,default=1"`
	Strategy   string `env:"SOLITAIRE_STRATEGY"`
	Iterations int    `env:"SOLITAIRE_ITERATIONS"`
	RedisAddr  string `env:"SOLITAIRE_REDIS_ADDR"`
	ConfigPath string `env:"SOLITAIRE_CONFIG"`
}

// LoadCLIConfig reads the CLI settings from the environment. Strategy and
// Iterations fall back to the game config when unset.
func LoadCLIConfig() (CLIConfig, error) {
	var c CLIConfig
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return CLIConfig{}, fmt.Errorf("failed to decode env config: %w", err)
	}
	if c.ConfigPath != "" {
		if err := LoadGameConfig(c.ConfigPath); err != nil {
			return CLIConfig{}, err
		}
	}
	if c.Strategy == "" {
		c.Strategy = SolverStrategy()
	}
	if c.Iterations <= 0 {
		c.Iterations = SolverIterations()
	}
	if c.Deals <= 0 {
		return CLIConfig{}, fmt.Errorf("SOLITAIRE_DEALS must be positive, got %d", c.Deals)
	}
	return c, nil
}
