package domain

import "fmt"

// Role decides where a stack sits on the table and which cards it accepts.
type Role int8

const (
	RoleDragon Role = iota
	RoleFlower
	RoleTarget
	RoleSorting
	// RoleGeneric tags stacks split off for dragging. Never a drop target.
	RoleGeneric
	// RoleAnimation tags stacks owned by the presentation layer.
	RoleAnimation
)

func (r Role) String() string {
	switch r {
	case RoleDragon:
		return "dragon"
	case RoleFlower:
		return "flower"
	case RoleTarget:
		return "target"
	case RoleSorting:
		return "sorting"
	case RoleGeneric:
		return "generic"
	case RoleAnimation:
		return "animation"
	default:
		return fmt.Sprintf("role(%d)", int8(r))
	}
}

// Stack is an ordered run of cards, bottom first. The last card is the top.
type Stack struct {
	Cards []Card
	Role  Role
}

// NewStack returns an empty stack with the given role.
func NewStack(role Role) Stack {
	return Stack{Role: role}
}

// Len returns the number of cards on the stack.
func (s *Stack) Len() int { return len(s.Cards) }

// Top returns the top card, or false when the stack is empty.
func (s *Stack) Top() (Card, bool) {
	if len(s.Cards) == 0 {
		return Card{}, false
	}
	return s.Cards[len(s.Cards)-1], true
}

// Bottom returns the first card, or false when the stack is empty.
func (s *Stack) Bottom() (Card, bool) {
	if len(s.Cards) == 0 {
		return Card{}, false
	}
	return s.Cards[0], true
}

// Push places card on top.
func (s *Stack) Push(card Card) {
	s.Cards = append(s.Cards, card)
}

// Pop removes and returns the top card. Popping an empty stack means a caller
// skipped validation and panics.
func (s *Stack) Pop() Card {
	if len(s.Cards) == 0 {
		panic(fmt.Sprintf("pop from empty %s stack", s.Role))
	}
	c := s.Cards[len(s.Cards)-1]
	s.Cards = s.Cards[:len(s.Cards)-1]
	return c
}

// Split removes the cards from index at to the top and returns them as a
// generic stack.
func (s *Stack) Split(at int) Stack {
	if at < 0 || at > len(s.Cards) {
		panic(fmt.Sprintf("split %s stack of %d cards at %d", s.Role, len(s.Cards), at))
	}
	out := make([]Card, len(s.Cards)-at)
	copy(out, s.Cards[at:])
	s.Cards = s.Cards[:at]
	return Stack{Cards: out, Role: RoleGeneric}
}

// Extend appends the cards of other on top of s.
func (s *Stack) Extend(other Stack) {
	s.Cards = append(s.Cards, other.Cards...)
}

// Clone returns a deep copy.
func (s Stack) Clone() Stack {
	out := Stack{Role: s.Role}
	if len(s.Cards) > 0 {
		out.Cards = make([]Card, len(s.Cards))
		copy(out.Cards, s.Cards)
	}
	return out
}

// Equal compares role and contents.
func (s *Stack) Equal(other *Stack) bool {
	if s.Role != other.Role || len(s.Cards) != len(other.Cards) {
		return false
	}
	for i := range s.Cards {
		if s.Cards[i] != other.Cards[i] {
			return false
		}
	}
	return true
}

// CloneStacks deep-copies a stack slice.
func CloneStacks(stacks []Stack) []Stack {
	out := make([]Stack, len(stacks))
	for i := range stacks {
		out[i] = stacks[i].Clone()
	}
	return out
}
