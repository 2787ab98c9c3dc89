package domain

import "testing"

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()
	if len(b.Stacks) != StackCount {
		t.Fatalf("stacks = %d, want %d", len(b.Stacks), StackCount)
	}
	for _, i := range DragonStacks() {
		if b.Stacks[i].Role != RoleDragon {
			t.Fatalf("stack %d role = %s", i, b.Stacks[i].Role)
		}
	}
	if b.Stacks[FlowerStack].Role != RoleFlower {
		t.Fatalf("flower stack role = %s", b.Stacks[FlowerStack].Role)
	}
	for _, i := range TargetStacks() {
		if b.Stacks[i].Role != RoleTarget {
			t.Fatalf("stack %d role = %s", i, b.Stacks[i].Role)
		}
	}
	for _, i := range SortingStacks() {
		if b.Stacks[i].Role != RoleSorting {
			t.Fatalf("stack %d role = %s", i, b.Stacks[i].Role)
		}
	}
	for i, btn := range b.Buttons {
		if btn.Color != Colors[i] || btn.State != ButtonUp {
			t.Fatalf("button %d = %+v", i, btn)
		}
	}
}

func TestDeal(t *testing.T) {
	b := NewBoard()
	deck := NewDeck()
	b.Deal(deck)

	total := 0
	for _, i := range SortingStacks() {
		if n := b.Stacks[i].Len(); n != DeckSize/SortingStackCount {
			t.Fatalf("sorting stack %d holds %d cards", i, n)
		}
		total += b.Stacks[i].Len()
	}
	if total != DeckSize {
		t.Fatalf("dealt %d cards, want %d", total, DeckSize)
	}

	// The last card of the deck is dealt first.
	if bottom, _ := b.Stacks[firstSorting].Bottom(); bottom != FlowerCard() {
		t.Fatalf("first dealt card = %s, want flower", bottom)
	}
	if top, _ := b.Stacks[firstSorting].Top(); top != deck[7] {
		t.Fatalf("top of first column = %s, want %s", top, deck[7])
	}
}

func TestSettleChainsAutomoves(t *testing.T) {
	b := NewBoard()
	s := firstSorting
	b.Stacks[s].Cards = []Card{NumberCard(1, Red)}
	b.Stacks[s+1].Cards = []Card{NumberCard(2, Red)}
	b.Stacks[s+2].Cards = []Card{NumberCard(1, Green)}
	b.Stacks[s+3].Cards = []Card{NumberCard(1, White)}

	got := b.Settle()
	want := []Move{
		CardsMove(firstTarget, s, 1),
		CardsMove(firstTarget+1, s+2, 1),
		CardsMove(firstTarget+2, s+3, 1),
		CardsMove(firstTarget, s+1, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("Settle() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Move != want[i] {
			t.Fatalf("move %d = %s, want %s", i, got[i].Move, want[i])
		}
	}
	if got[3].Card != NumberCard(2, Red) {
		t.Fatalf("last auto-move carried %s, want 2:red", got[3].Card)
	}
	if b.Dirty() {
		t.Fatalf("board still dirty after settle")
	}
	if again := b.Settle(); len(again) != 0 {
		t.Fatalf("quiet board produced %v", again)
	}
}

func TestButtonLifecycle(t *testing.T) {
	b := NewBoard()
	s := firstSorting
	for i := 0; i < 4; i++ {
		b.Stacks[s+i].Cards = []Card{NumberCard(9, Green), DragonCard(Red)}
	}

	if moves := b.Settle(); len(moves) != 0 {
		t.Fatalf("unexpected auto-moves %v", moves)
	}
	if st := b.Button(Red).State; st != ButtonActive {
		t.Fatalf("red button = %s, want active", st)
	}
	if st := b.Button(Green).State; st != ButtonUp {
		t.Fatalf("green button = %s, want up", st)
	}

	if _, ok := b.ClickButton(Green); ok {
		t.Fatalf("inactive button fired")
	}
	m, ok := b.ClickButton(Red)
	if !ok {
		t.Fatalf("active button did not fire")
	}
	if m.Target != 0 || m.Sources != [4]int{s, s + 1, s + 2, s + 3} {
		t.Fatalf("button move = %s", m)
	}
	if st := b.Button(Red).State; st != ButtonDown {
		t.Fatalf("red button = %s, want down", st)
	}
	if b.Stacks[0].Len() != 4 {
		t.Fatalf("dragon stack holds %d cards", b.Stacks[0].Len())
	}

	b.Settle()
	if st := b.Button(Red).State; st != ButtonUp {
		t.Fatalf("red button after settle = %s, want up", st)
	}
	if _, ok := b.ClickButton(Red); ok {
		t.Fatalf("released button fired")
	}
}

func TestDragAndDrop(t *testing.T) {
	b := NewBoard()
	s := firstSorting
	b.Stacks[s].Cards = []Card{NumberCard(5, Red)}
	b.Stacks[s+1].Cards = []Card{NumberCard(6, Green)}
	b.Settle()

	if !b.BeginDrag(s, 0) {
		t.Fatalf("BeginDrag rejected a single card")
	}
	if b.BeginDrag(s+1, 0) {
		t.Fatalf("second drag accepted while one is pending")
	}
	src, cards, ok := b.Dragging()
	if !ok || src != s || len(cards) != 1 {
		t.Fatalf("Dragging() = %d %v %t", src, cards, ok)
	}
	b.SetDirty()
	if moves := b.Settle(); len(moves) != 0 || !b.Dirty() {
		t.Fatalf("settle must wait for the drag to finish")
	}

	m, dropped, ok := b.Drop(s + 1)
	if !ok {
		t.Fatalf("Drop rejected 5R onto 6G")
	}
	if m != CardsMove(s+1, s, 1) || len(dropped) != 1 || dropped[0] != NumberCard(5, Red) {
		t.Fatalf("Drop() = %s %v", m, dropped)
	}
	if b.Stacks[s].Len() != 0 || b.Stacks[s+1].Len() != 2 {
		t.Fatalf("stacks not updated after drop")
	}

	t.Run("rejected drop returns cards", func(t *testing.T) {
		if !b.BeginDrag(s+1, 0) {
			t.Fatalf("BeginDrag rejected run 6G,5R")
		}
		if _, _, ok := b.Drop(firstTarget); ok {
			t.Fatalf("run accepted on a target stack")
		}
		if b.Stacks[s+1].Len() != 2 {
			t.Fatalf("cards not returned to source")
		}
		if _, _, ok := b.Dragging(); ok {
			t.Fatalf("drag still pending after rejection")
		}
	})

	t.Run("drop on own source", func(t *testing.T) {
		if !b.BeginDrag(s+1, 1) {
			t.Fatalf("BeginDrag rejected top card")
		}
		if _, _, ok := b.Drop(s + 1); ok {
			t.Fatalf("drop onto own source accepted")
		}
		if b.Stacks[s+1].Len() != 2 {
			t.Fatalf("source changed after rejected drop")
		}
	})

	t.Run("cancel", func(t *testing.T) {
		if !b.BeginDrag(s+1, 1) {
			t.Fatalf("BeginDrag rejected top card")
		}
		if b.Stacks[s+1].Len() != 1 {
			t.Fatalf("drag did not lift the card")
		}
		if !b.CancelDrag() {
			t.Fatalf("CancelDrag() = false with a drag pending")
		}
		if b.Stacks[s+1].Len() != 2 {
			t.Fatalf("cancel did not return the card")
		}
	})

	t.Run("invalid picks", func(t *testing.T) {
		if b.BeginDrag(firstTarget, 0) || b.BeginDrag(StackCount, 0) || b.BeginDrag(-1, 0) {
			t.Fatalf("invalid drag source accepted")
		}
		if _, _, ok := b.Drop(s); ok {
			t.Fatalf("drop without a drag accepted")
		}
		if b.CancelDrag() {
			t.Fatalf("cancel without a drag reported true")
		}
	})
}

func TestVictoryAndReset(t *testing.T) {
	b := NewBoard()
	for i, ti := range TargetStacks() {
		for r := uint8(1); r <= TargetFullRank; r++ {
			b.Stacks[ti].Push(NumberCard(r, Colors[i]))
		}
	}
	if !b.Victory() {
		t.Fatalf("expected victory")
	}
	b.Reset()
	if b.Victory() {
		t.Fatalf("reset board must not be won")
	}
	if !b.Dirty() {
		t.Fatalf("reset board should be dirty")
	}
}

func TestShuffleDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d", len(deck))
	}

	a := ShuffleDeck(deck, 42)
	b := ShuffleDeck(deck, 42)
	c := ShuffleDeck(deck, 43)
	same, differ := true, false
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
		if a[i] != c[i] {
			differ = true
		}
	}
	if !same {
		t.Fatalf("equal seeds gave different deals")
	}
	if !differ {
		t.Fatalf("different seeds gave the same deal")
	}

	counts := make(map[Card]int)
	for _, card := range a {
		counts[card]++
	}
	for _, card := range deck {
		counts[card]--
	}
	for card, n := range counts {
		if n != 0 {
			t.Fatalf("shuffle changed count of %s by %d", card, n)
		}
	}
	if deck[len(deck)-1] != FlowerCard() {
		t.Fatalf("shuffle mutated the input deck")
	}
}
