package app

import (
	"time"

	"solitaire/internal/domain"
)

// Phase is the lifecycle stage of a single game.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

// Game is one dealt table and the progress made on it.
type Game struct {
	ID        string
	Seed      uint64
	Board     *domain.Board
	Phase     Phase
	Moves     int
	StartedAt time.Time
	EndedAt   time.Time
}

// Ended reports whether the game has been won or given up.
func (g *Game) Ended() bool {
	return g.Phase == PhaseWon || g.Phase == PhaseLost
}
