package config

import (
	"testing"
	"time"
)

func TestDefaultsWithoutGameConfig(t *testing.T) {
	if got := SolverStrategy(); got != "priority" {
		t.Fatalf("SolverStrategy() = %q", got)
	}
	if got := SolverIterations(); got != 200000 {
		t.Fatalf("SolverIterations() = %d", got)
	}
	if got := TicketTTL(); got != 24*time.Hour {
		t.Fatalf("TicketTTL() = %s", got)
	}
	if !HintsEnabled() {
		t.Fatalf("hints should default on")
	}
}

func TestLoadCLIConfig(t *testing.T) {
	t.Setenv("SOLITAIRE_DEALS", "25")
	t.Setenv("SOLITAIRE_FIRST_SEED", "1000")
	t.Setenv("SOLITAIRE_STRATEGY", "dfs")
	t.Setenv("SOLITAIRE_ITERATIONS", "")
	t.Setenv("SOLITAIRE_CONFIG", "")

	c, err := LoadCLIConfig()
	if err != nil {
		t.Fatalf("LoadCLIConfig() error = %v", err)
	}
	if c.Deals != 25 || c.FirstSeed != 1000 || c.Strategy != "dfs" {
		t.Fatalf("LoadCLIConfig() = %+v", c)
	}
	if c.Iterations != SolverIterations() {
		t.Fatalf("Iterations = %d, want config default", c.Iterations)
	}
}

func TestLoadCLIConfigRejectsZeroDeals(t *testing.T) {
	t.Setenv("SOLITAIRE_DEALS", "0")
	if _, err := LoadCLIConfig(); err == nil {
		t.Fatalf("expected error for zero deals")
	}
}
