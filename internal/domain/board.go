package domain

import "fmt"

// ButtonState is the visual and logical state of a dragon button.
type ButtonState int8

const (
	ButtonUp ButtonState = iota
	ButtonActive
	ButtonDown
)

func (s ButtonState) String() string {
	switch s {
	case ButtonUp:
		return "up"
	case ButtonActive:
		return "active"
	case ButtonDown:
		return "down"
	default:
		return fmt.Sprintf("button_state(%d)", int8(s))
	}
}

// Button collects the four visible dragons of its color.
type Button struct {
	Color Color
	State ButtonState
}

// Table topology. Stack indices are stable for the lifetime of a board.
const (
	DragonStackCount  = 3
	TargetStackCount  = 3
	SortingStackCount = 8

	FlowerStack  = DragonStackCount
	firstTarget  = FlowerStack + 1
	firstSorting = firstTarget + TargetStackCount

	StackCount = firstSorting + SortingStackCount
)

// DragonStacks returns the indices of the dragon stacks.
func DragonStacks() []int { return indexRange(0, DragonStackCount) }

// TargetStacks returns the indices of the target stacks.
func TargetStacks() []int { return indexRange(firstTarget, TargetStackCount) }

// SortingStacks returns the indices of the sorting stacks.
func SortingStacks() []int { return indexRange(firstSorting, SortingStackCount) }

func indexRange(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

type pendingDrag struct {
	source int
	cards  Stack
}

// Board owns the stacks and buttons of one table. It is not safe for
// concurrent use; callers serialize access through their update loop.
type Board struct {
	Stacks  []Stack
	Buttons [3]Button

	dirty bool
	drag  *pendingDrag
}

// NewBoard builds an empty table: 3 dragon stacks, the flower stack,
// 3 target stacks and 8 sorting stacks, in that order.
func NewBoard() *Board {
	b := &Board{Stacks: make([]Stack, 0, StackCount), dirty: true}
	for i := 0; i < DragonStackCount; i++ {
		b.Stacks = append(b.Stacks, NewStack(RoleDragon))
	}
	b.Stacks = append(b.Stacks, NewStack(RoleFlower))
	for i := 0; i < TargetStackCount; i++ {
		b.Stacks = append(b.Stacks, NewStack(RoleTarget))
	}
	for i := 0; i < SortingStackCount; i++ {
		b.Stacks = append(b.Stacks, NewStack(RoleSorting))
	}
	for i, c := range Colors {
		b.Buttons[i] = Button{Color: c, State: ButtonUp}
	}
	return b
}

// Reset empties every stack, releases the buttons and drops any pending drag.
func (b *Board) Reset() {
	for i := range b.Stacks {
		b.Stacks[i].Cards = nil
	}
	for i := range b.Buttons {
		b.Buttons[i].State = ButtonUp
	}
	b.drag = nil
	b.dirty = true
}

// Deal resets the board and deals deck round-robin onto the sorting stacks,
// taking cards from the end of deck.
func (b *Board) Deal(deck []Card) {
	b.Reset()
	sorting := SortingStacks()
	for i := len(deck) - 1; i >= 0; i-- {
		s := sorting[(len(deck)-1-i)%len(sorting)]
		b.Stacks[s].Push(deck[i])
	}
}

// Snapshot deep-copies the stack contents and roles.
func (b *Board) Snapshot() []Stack {
	return CloneStacks(b.Stacks)
}

// Dirty reports whether the rule pass still has work to do.
func (b *Board) Dirty() bool { return b.dirty }

// SetDirty forces the next Settle to run a full pass.
func (b *Board) SetDirty() { b.dirty = true }

// Button returns the button of color.
func (b *Board) Button(color Color) Button {
	for _, btn := range b.Buttons {
		if btn.Color == color {
			return btn
		}
	}
	panic(fmt.Sprintf("no %s button", color))
}

// Dragging returns the pending drag, if any.
func (b *Board) Dragging() (source int, cards []Card, ok bool) {
	if b.drag == nil {
		return 0, nil, false
	}
	return b.drag.source, b.drag.cards.Cards, true
}

func (b *Board) validStack(i int) bool {
	return i >= 0 && i < len(b.Stacks)
}

// BeginDrag picks up the run from start to the top of stack src. Only one
// drag may be pending.
func (b *Board) BeginDrag(src, start int) bool {
	if b.drag != nil || !b.validStack(src) {
		return false
	}
	if !IsValidDrag(&b.Stacks[src], start) {
		return false
	}
	b.drag = &pendingDrag{source: src, cards: b.Stacks[src].Split(start)}
	return true
}

// Drop places the dragged cards on target. A rejected drop returns the cards
// to their source and reports false.
func (b *Board) Drop(target int) (Move, []Card, bool) {
	if b.drag == nil {
		return Move{}, nil, false
	}
	if !b.validStack(target) || target == b.drag.source || !IsValidDrop(&b.Stacks[target], &b.drag.cards) {
		b.CancelDrag()
		return Move{}, nil, false
	}
	d := b.drag
	b.drag = nil
	b.Stacks[target].Extend(d.cards)
	b.dirty = true
	return CardsMove(target, d.source, d.cards.Len()), d.cards.Cards, true
}

// CancelDrag puts the dragged cards back where they came from.
func (b *Board) CancelDrag() bool {
	if b.drag == nil {
		return false
	}
	b.Stacks[b.drag.source].Extend(b.drag.cards)
	b.drag = nil
	return true
}

// ClickButton fires the button of color when it is active.
func (b *Board) ClickButton(color Color) (Move, bool) {
	if b.drag != nil {
		return Move{}, false
	}
	for i := range b.Buttons {
		btn := &b.Buttons[i]
		if btn.Color != color || btn.State != ButtonActive {
			continue
		}
		m, ok := CheckButton(color, b.Stacks)
		if !ok {
			btn.State = ButtonUp
			b.dirty = true
			return Move{}, false
		}
		ApplyMove(b.Stacks, m)
		btn.State = ButtonDown
		b.dirty = true
		return m, true
	}
	return Move{}, false
}

// AutoMove is a house-keeping move and the card it carried.
type AutoMove struct {
	Move Move
	Card Card
}

// Settle runs the global rule pass until it is quiet: one auto-move per pass,
// and once none is left, a button recomputation. Returns the auto-moves in
// the order they were applied.
func (b *Board) Settle() []AutoMove {
	var moves []AutoMove
	for b.dirty && b.drag == nil {
		if m, ok := GetAutomove(b.Stacks); ok {
			card, _ := b.Stacks[m.Source].Top()
			ApplyMove(b.Stacks, m)
			moves = append(moves, AutoMove{Move: m, Card: card})
			continue
		}
		b.dirty = b.updateButtons()
	}
	return moves
}

func (b *Board) updateButtons() bool {
	changed := false
	for i := range b.Buttons {
		state := ButtonUp
		if _, ok := CheckButton(b.Buttons[i].Color, b.Stacks); ok {
			state = ButtonActive
		}
		if b.Buttons[i].State != state {
			b.Buttons[i].State = state
			changed = true
		}
	}
	return changed
}

// Victory reports whether the game on this board is won.
func (b *Board) Victory() bool {
	return b.drag == nil && CheckVictory(b.Stacks)
}
