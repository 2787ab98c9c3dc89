package domain

import "fmt"

// MoveKind tells card moves apart from dragon collections.
type MoveKind int8

const (
	MoveCards MoveKind = iota
	MoveButton
)

// Move is a single state transition.
//
// MoveCards moves the top N cards of Source onto Target as a unit.
// MoveButton pops the top card of each of Sources and pushes four face-down
// cards onto Target.
type Move struct {
	Kind    MoveKind
	Color   Color
	Target  int
	Source  int
	Sources [4]int
	N       int
}

// CardsMove builds a MoveCards move.
func CardsMove(target, source, n int) Move {
	return Move{Kind: MoveCards, Target: target, Source: source, N: n}
}

// ButtonMove builds a MoveButton move.
func ButtonMove(color Color, target int, sources [4]int) Move {
	return Move{Kind: MoveButton, Color: color, Target: target, Sources: sources}
}

func (m Move) String() string {
	if m.Kind == MoveButton {
		return fmt.Sprintf("button(%s -> %d from %v)", m.Color, m.Target, m.Sources)
	}
	return fmt.Sprintf("cards(%d x%d -> %d)", m.Source, m.N, m.Target)
}

// destinationOrder ranks destination roles for move generation.
var destinationOrder = [...]Role{RoleFlower, RoleTarget, RoleSorting, RoleDragon}

// PossibleMoves enumerates the legal moves on stacks: dragon collections
// first, then card moves ordered by destination role. Moves that only swap a
// whole stack into an empty stack of the same role are left out.
func PossibleMoves(stacks []Stack) []Move {
	moves := make([]Move, 0, 16)
	for _, color := range Colors {
		if m, ok := CheckButton(color, stacks); ok {
			moves = append(moves, m)
		}
	}

	for _, role := range destinationOrder {
		for t := range stacks {
			if stacks[t].Role != role {
				continue
			}
			target := &stacks[t]
			for s := range stacks {
				if s == t {
					continue
				}
				source := &stacks[s]
				if source.Role != RoleDragon && source.Role != RoleSorting {
					continue
				}
				for start := source.Len() - 1; start >= 0; start-- {
					if !IsValidDrag(source, start) {
						break
					}
					if target.Len() == 0 && target.Role == source.Role && start == 0 {
						continue
					}
					if IsValidMove(target, source.Cards[start], source.Len()-start) {
						moves = append(moves, CardsMove(t, s, source.Len()-start))
					}
				}
			}
		}
	}
	return moves
}

// ApplyMove performs m on stacks in place.
func ApplyMove(stacks []Stack, m Move) {
	switch m.Kind {
	case MoveButton:
		for _, s := range m.Sources {
			stacks[s].Pop()
		}
		for range m.Sources {
			stacks[m.Target].Push(FaceDownCard())
		}
	case MoveCards:
		src := &stacks[m.Source]
		moved := src.Split(src.Len() - m.N)
		stacks[m.Target].Extend(moved)
	default:
		panic(fmt.Sprintf("unknown move kind %d", m.Kind))
	}
}
