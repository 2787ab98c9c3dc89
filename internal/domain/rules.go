package domain

import "fmt"

// TargetFullRank is the rank that completes a target stack.
const TargetFullRank = 9

// IsValidPair reports whether upper may sit directly on lower in a
// descending run: both numbers, different colors, upper one rank below.
func IsValidPair(lower, upper Card) bool {
	return lower.IsNumber() && upper.IsNumber() &&
		lower.Color != upper.Color &&
		lower.Rank == upper.Rank+1
}

// IsValidSequence reports whether cards (bottom first) form a draggable run.
// Empty and single-card sequences are always valid.
func IsValidSequence(cards []Card) bool {
	for i := 1; i < len(cards); i++ {
		if !IsValidPair(cards[i-1], cards[i]) {
			return false
		}
	}
	return true
}

// IsValidDrag reports whether the cards from start to the top of stack may be
// picked up. Dragging from generic or animation stacks panics.
func IsValidDrag(stack *Stack, start int) bool {
	switch stack.Role {
	case RoleTarget, RoleFlower:
		return false
	case RoleDragon:
		top, ok := stack.Top()
		return ok && start == stack.Len()-1 && top.Kind != FaceDown
	case RoleSorting:
		if start < 0 || start >= stack.Len() {
			return false
		}
		return IsValidSequence(stack.Cards[start:])
	default:
		panic(fmt.Sprintf("drag from %s stack", stack.Role))
	}
}

// IsValidMove reports whether a run of n cards whose bottom card is base may
// be dropped on target. Dropping on generic or animation stacks panics.
func IsValidMove(target *Stack, base Card, n int) bool {
	if n < 1 {
		return false
	}
	top, hasTop := target.Top()
	switch target.Role {
	case RoleDragon:
		return !hasTop && n == 1
	case RoleFlower:
		return !hasTop && n == 1 && base.Kind == Flower
	case RoleTarget:
		if n != 1 || !base.IsNumber() {
			return false
		}
		if !hasTop {
			return base.Rank == 1
		}
		return top.IsNumber() && top.Color == base.Color && top.Rank+1 == base.Rank
	case RoleSorting:
		if !hasTop {
			return true
		}
		return IsValidPair(top, base)
	default:
		panic(fmt.Sprintf("drop on %s stack", target.Role))
	}
}

// IsValidDrop reports whether the dragged stack may be dropped on target.
func IsValidDrop(target, dragged *Stack) bool {
	base, ok := dragged.Bottom()
	if !ok {
		return false
	}
	return IsValidMove(target, base, dragged.Len())
}

// CheckButton finds the dragon collection for color. The target is the first
// dragon stack that is empty or already topped by a dragon of color; the
// sources are every stack showing a dragon of color, which must number
// exactly four.
func CheckButton(color Color, stacks []Stack) (Move, bool) {
	target := -1
	for i := range stacks {
		if stacks[i].Role != RoleDragon {
			continue
		}
		top, ok := stacks[i].Top()
		if !ok || top.IsDragonOf(color) {
			target = i
			break
		}
	}
	if target < 0 {
		return Move{}, false
	}

	var sources [4]int
	n := 0
	for i := range stacks {
		top, ok := stacks[i].Top()
		if !ok || !top.IsDragonOf(color) {
			continue
		}
		if n == len(sources) {
			return Move{}, false
		}
		sources[n] = i
		n++
	}
	if n != len(sources) {
		return Move{}, false
	}
	return ButtonMove(color, target, sources), true
}

// LowestTargetRank returns the smallest top rank across target stacks, 0 when
// any target is empty.
func LowestTargetRank(stacks []Stack) uint8 {
	lowest := -1
	for i := range stacks {
		if stacks[i].Role != RoleTarget {
			continue
		}
		rank := 0
		if top, ok := stacks[i].Top(); ok {
			if !top.IsNumber() {
				panic(fmt.Sprintf("%s on target stack %d", top, i))
			}
			rank = int(top.Rank)
		}
		if lowest < 0 || rank < lowest {
			lowest = rank
		}
	}
	if lowest < 0 {
		return 0
	}
	return uint8(lowest)
}

// GetAutomove returns the first house-keeping move, iterating flower/target
// destinations in stack order and, for each, dragon/sorting sources in stack
// order. A number card only qualifies while its rank is at most one above
// the lowest target rank, so cards still useful for building runs stay put.
func GetAutomove(stacks []Stack) (Move, bool) {
	lowest := LowestTargetRank(stacks)
	for t := range stacks {
		if role := stacks[t].Role; role != RoleTarget && role != RoleFlower {
			continue
		}
		for s := range stacks {
			if role := stacks[s].Role; role != RoleDragon && role != RoleSorting {
				continue
			}
			top, ok := stacks[s].Top()
			if !ok {
				continue
			}
			if top.IsNumber() && top.Rank > lowest+1 {
				continue
			}
			if IsValidMove(&stacks[t], top, 1) {
				return CardsMove(t, s, 1), true
			}
		}
	}
	return Move{}, false
}

// CheckVictory reports whether every sorting stack is empty and every target
// stack holds a full run.
func CheckVictory(stacks []Stack) bool {
	for i := range stacks {
		switch stacks[i].Role {
		case RoleSorting:
			if stacks[i].Len() != 0 {
				return false
			}
		case RoleTarget:
			if stacks[i].Len() != TargetFullRank {
				return false
			}
		}
	}
	return true
}
