package solver

import (
	"strings"

	"solitaire/internal/domain"
)

// State is one node of the search: a private copy of every stack and the
// number of moves that led to it.
type State struct {
	Stacks []domain.Stack
	Depth  int
}

// NewState snapshots stacks into a root state.
func NewState(stacks []domain.Stack) State {
	return State{Stacks: domain.CloneStacks(stacks)}
}

// Key encodes the roles and contents of every stack. Two states share a key
// exactly when they are equal, which is what the visited set relies on.
func (s State) Key() string {
	var sb strings.Builder
	n := 0
	for i := range s.Stacks {
		n += 2 + 3*s.Stacks[i].Len()
	}
	sb.Grow(n)
	for i := range s.Stacks {
		st := &s.Stacks[i]
		sb.WriteByte(byte(st.Role))
		sb.WriteByte(byte(st.Len()))
		for _, c := range st.Cards {
			sb.WriteByte(byte(c.Kind))
			sb.WriteByte(c.Rank)
			sb.WriteByte(byte(c.Color))
		}
	}
	return sb.String()
}

// Victory reports whether the state is won.
func (s State) Victory() bool {
	return domain.CheckVictory(s.Stacks)
}

// Score estimates how close the state is to a win. Higher is better.
func (s State) Score() int {
	return Score(s.Stacks)
}

// Successors applies every legal move to a copy of s, in move order.
func (s State) Successors() []State {
	moves := domain.PossibleMoves(s.Stacks)
	out := make([]State, 0, len(moves))
	for _, m := range moves {
		next := State{Stacks: domain.CloneStacks(s.Stacks), Depth: s.Depth + 1}
		domain.ApplyMove(next.Stacks, m)
		out = append(out, next)
	}
	return out
}

// Score rates a table: a collected dragon block is worth 100, a target stack
// 10 per rank on top, and a sorting stack one point per valid pair in the
// run sitting on its top.
func Score(stacks []domain.Stack) int {
	score := 0
	for i := range stacks {
		st := &stacks[i]
		top, ok := st.Top()
		if !ok {
			continue
		}
		switch st.Role {
		case domain.RoleDragon:
			if top.Kind == domain.FaceDown {
				score += 100
			}
		case domain.RoleTarget:
			if top.IsNumber() {
				score += 10 * int(top.Rank)
			}
		case domain.RoleSorting:
			score += runLength(st.Cards)
		}
	}
	return score
}

func runLength(cards []domain.Card) int {
	n := 0
	for i := len(cards) - 1; i > 0; i-- {
		if !domain.IsValidPair(cards[i-1], cards[i]) {
			break
		}
		n++
	}
	return n
}
