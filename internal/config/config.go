package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	defaultStrategy   = "priority"
	defaultIterations = 200000
	defaultTicketTTL  = 24 * time.Hour
	defaultIssuer     = "solitaire"
)

type GameConfig struct {
	// SolverStrategy is "priority" or "dfs".
	SolverStrategy   string `json:"solver_strategy"`
	SolverIterations int    `json:"solver_iterations"`
	// TicketTTLSeconds bounds how long a shared deal ticket stays valid.
	TicketTTLSeconds int    `json:"ticket_ttl_seconds"`
	TicketIssuer     string `json:"ticket_issuer"`
	// HintsEnabled lets players ask the match for a suggested move.
	HintsEnabled bool `json:"hints_enabled"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// SolverStrategy returns the configured search strategy name.
func SolverStrategy() string {
	if cfg == nil || cfg.SolverStrategy == "" {
		return defaultStrategy
	}
	return cfg.SolverStrategy
}

// SolverIterations returns the expansion budget for the priority search.
func SolverIterations() int {
	if cfg == nil || cfg.SolverIterations <= 0 {
		return defaultIterations
	}
	return cfg.SolverIterations
}

func TicketTTL() time.Duration {
	if cfg == nil || cfg.TicketTTLSeconds <= 0 {
		return defaultTicketTTL
	}
	return time.Duration(cfg.TicketTTLSeconds) * time.Second
}

func TicketIssuer() string {
	if cfg == nil || cfg.TicketIssuer == "" {
		return defaultIssuer
	}
	return cfg.TicketIssuer
}

// HintsEnabled defaults to true when no config is loaded.
func HintsEnabled() bool {
	if cfg == nil {
		return true
	}
	return cfg.HintsEnabled
}
