package domain

import "testing"

func TestStackSplitAndExtend(t *testing.T) {
	s := Stack{Role: RoleSorting, Cards: []Card{NumberCard(9, Red), NumberCard(8, Green), NumberCard(7, White)}}

	moved := s.Split(1)
	if moved.Role != RoleGeneric || moved.Len() != 2 || s.Len() != 1 {
		t.Fatalf("Split(1) = %v / %v", moved, s)
	}
	// The split run owns its cards.
	s.Push(FlowerCard())
	if moved.Cards[0] != NumberCard(8, Green) {
		t.Fatalf("split run aliased its source: %v", moved.Cards)
	}

	s.Pop()
	s.Extend(moved)
	if s.Len() != 3 || s.Role != RoleSorting {
		t.Fatalf("Extend() = %v", s)
	}
	if top, _ := s.Top(); top != NumberCard(7, White) {
		t.Fatalf("top = %s", top)
	}
	if bottom, _ := s.Bottom(); bottom != NumberCard(9, Red) {
		t.Fatalf("bottom = %s", bottom)
	}

	mustPanic(t, "split past top", func() { s.Split(4) })
	mustPanic(t, "pop empty", func() {
		empty := NewStack(RoleDragon)
		empty.Pop()
	})
}

func TestCloneStacks(t *testing.T) {
	b := NewBoard()
	b.Stacks[FlowerStack].Push(FlowerCard())
	snap := b.Snapshot()
	b.Stacks[FlowerStack].Pop()

	if snap[FlowerStack].Len() != 1 {
		t.Fatalf("snapshot shares cards with the board")
	}
	if !snap[firstSorting].Equal(&b.Stacks[firstSorting]) {
		t.Fatalf("empty sorting stacks should compare equal")
	}
	if snap[FlowerStack].Equal(&b.Stacks[FlowerStack]) {
		t.Fatalf("different contents compared equal")
	}
}

func TestCardStrings(t *testing.T) {
	tests := map[Card]string{
		NumberCard(5, Red): "5:red",
		DragonCard(White):  "dragon:white",
		FlowerCard():       "flower",
		FaceDownCard():     "facedown",
	}
	for card, want := range tests {
		if got := card.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
	for _, c := range Colors {
		if got, ok := ParseColor(c.String()); !ok || got != c {
			t.Fatalf("ParseColor(%q) = %v %t", c, got, ok)
		}
	}
	if _, ok := ParseColor("blue"); ok {
		t.Fatalf("ParseColor accepted blue")
	}
}
