package app

import (
	"context"
	"fmt"

	"solitaire/internal/domain"
	"solitaire/internal/ports"
	"solitaire/internal/solver"
)

// DealBoard returns the settled opening table for seed.
func DealBoard(seed uint64) *domain.Board {
	b := domain.NewBoard()
	b.Deal(domain.ShuffleDeck(domain.NewDeck(), seed))
	b.Settle()
	return b
}

// AssessDeal decides whether the deal for seed can be won. Conclusive
// verdicts are cached in the verdict store; an Unknown verdict is reused
// only when it came from at least as large a budget.
func (s *Service) AssessDeal(ctx context.Context, seed uint64) (ports.DealVerdict, error) {
	if s.verdicts != nil {
		v, ok, err := s.verdicts.GetVerdict(ctx, seed)
		if err != nil {
			return ports.DealVerdict{}, fmt.Errorf("failed to read verdict: %w", err)
		}
		if ok && s.reusable(v) {
			return v, nil
		}
	}

	res, err := solver.Solve(DealBoard(seed).Snapshot(), s.settings.Strategy, s.settings.Iterations)
	if err != nil {
		return ports.DealVerdict{}, err
	}
	v := ports.DealVerdict{
		Seed:       seed,
		Verdict:    res.Verdict.String(),
		Depth:      res.Depth,
		Expanded:   res.Expanded,
		Strategy:   string(s.settings.Strategy),
		Iterations: s.settings.Iterations,
	}

	if s.verdicts != nil {
		if err := s.verdicts.PutVerdict(ctx, v); err != nil {
			return v, fmt.Errorf("failed to store verdict: %w", err)
		}
	}
	return v, nil
}

// SolveGame runs the configured search from the current table of game.
func (s *Service) SolveGame(game *Game) (solver.Result, error) {
	if err := s.checkPlaying(game); err != nil {
		return solver.Result{}, err
	}
	if _, _, ok := game.Board.Dragging(); ok {
		return solver.Result{}, ErrDragPending
	}
	return solver.Solve(game.Board.Snapshot(), s.settings.Strategy, s.settings.Iterations)
}

func (s *Service) reusable(v ports.DealVerdict) bool {
	if v.Verdict != solver.Unknown.String() {
		return true
	}
	return v.Strategy == string(s.settings.Strategy) && v.Iterations >= s.settings.Iterations
}
