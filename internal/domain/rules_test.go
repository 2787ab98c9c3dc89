package domain

import (
	"testing"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

// stacksWith returns an empty table with the given cards placed on stacks.
func stacksWith(cards map[int][]Card) []Stack {
	stacks := NewBoard().Stacks
	for i, cs := range cards {
		stacks[i].Cards = append([]Card{}, cs...)
	}
	return stacks
}

func TestIsValidPair(t *testing.T) {
	tests := []struct {
		name         string
		lower, upper Card
		want         bool
	}{
		{"descending alternating", NumberCard(5, Red), NumberCard(4, Green), true},
		{"same color", NumberCard(5, Red), NumberCard(4, Red), false},
		{"ascending", NumberCard(4, Red), NumberCard(5, Green), false},
		{"gap of two", NumberCard(6, Red), NumberCard(4, Green), false},
		{"dragon lower", DragonCard(Red), NumberCard(4, Green), false},
		{"dragon upper", NumberCard(5, Red), DragonCard(Green), false},
		{"flower", FlowerCard(), NumberCard(4, Green), false},
		{"face down", NumberCard(5, Red), FaceDownCard(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPair(tt.lower, tt.upper); got != tt.want {
				t.Fatalf("IsValidPair(%s, %s) = %t, want %t", tt.lower, tt.upper, got, tt.want)
			}
		})
	}
}

func TestIsValidPairAllNumbers(t *testing.T) {
	for r1 := uint8(1); r1 <= 9; r1++ {
		for r2 := uint8(1); r2 <= 9; r2++ {
			if r1 == r2 {
				continue
			}
			for _, c1 := range Colors {
				for _, c2 := range Colors {
					want := r1 == r2+1 && c1 != c2
					if got := IsValidPair(NumberCard(r1, c1), NumberCard(r2, c2)); got != want {
						t.Fatalf("IsValidPair(%d%s, %d%s) = %t, want %t", r1, c1, r2, c2, got, want)
					}
				}
			}
		}
	}
}

func TestIsValidSequence(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  bool
	}{
		{"empty", nil, true},
		{"single dragon", []Card{DragonCard(White)}, true},
		{"single flower", []Card{FlowerCard()}, true},
		{"alternating run", []Card{NumberCard(9, Red), NumberCard(8, Green), NumberCard(7, White)}, true},
		{"same color run", []Card{NumberCard(3, Red), NumberCard(2, Red), NumberCard(1, Red)}, false},
		{"dragon in middle", []Card{NumberCard(5, Red), DragonCard(Green), NumberCard(4, White)}, false},
		{"flower in middle", []Card{NumberCard(5, Red), FlowerCard(), NumberCard(4, White)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSequence(tt.cards); got != tt.want {
				t.Fatalf("IsValidSequence() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestIsValidDrag(t *testing.T) {
	run := []Card{NumberCard(9, Red), NumberCard(8, Green), NumberCard(7, White)}
	broken := []Card{NumberCard(9, Red), NumberCard(8, Red), NumberCard(7, White)}
	facedown := []Card{FaceDownCard(), FaceDownCard(), FaceDownCard(), FaceDownCard()}

	tests := []struct {
		name  string
		stack Stack
		start int
		want  bool
	}{
		{"target never", Stack{Role: RoleTarget, Cards: []Card{NumberCard(1, Red)}}, 0, false},
		{"flower never", Stack{Role: RoleFlower, Cards: []Card{FlowerCard()}}, 0, false},
		{"dragon with card", Stack{Role: RoleDragon, Cards: []Card{DragonCard(Red)}}, 0, true},
		{"dragon empty", Stack{Role: RoleDragon}, 0, false},
		{"dragon collected", Stack{Role: RoleDragon, Cards: facedown}, 3, false},
		{"sorting whole run", Stack{Role: RoleSorting, Cards: run}, 0, true},
		{"sorting top only", Stack{Role: RoleSorting, Cards: broken}, 2, true},
		{"sorting broken run", Stack{Role: RoleSorting, Cards: broken}, 0, false},
		{"sorting valid tail", Stack{Role: RoleSorting, Cards: broken}, 1, true},
		{"sorting out of range", Stack{Role: RoleSorting, Cards: run}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidDrag(&tt.stack, tt.start); got != tt.want {
				t.Fatalf("IsValidDrag() = %t, want %t", got, tt.want)
			}
		})
	}

	mustPanic(t, "generic", func() { IsValidDrag(&Stack{Role: RoleGeneric}, 0) })
	mustPanic(t, "animation", func() { IsValidDrag(&Stack{Role: RoleAnimation}, 0) })
}

func TestIsValidMove(t *testing.T) {
	greens := []Card{NumberCard(1, Green), NumberCard(2, Green), NumberCard(3, Green), NumberCard(4, Green)}

	tests := []struct {
		name   string
		target Stack
		base   Card
		n      int
		want   bool
	}{
		{"empty target takes one", Stack{Role: RoleTarget}, NumberCard(1, Red), 1, true},
		{"empty target rejects two", Stack{Role: RoleTarget}, NumberCard(2, Red), 1, false},
		{"empty target rejects dragon", Stack{Role: RoleTarget}, DragonCard(Red), 1, false},
		{"empty target rejects run", Stack{Role: RoleTarget}, NumberCard(1, Red), 2, false},
		{"target next rank", Stack{Role: RoleTarget, Cards: greens}, NumberCard(5, Green), 1, true},
		{"target wrong color", Stack{Role: RoleTarget, Cards: greens}, NumberCard(5, Red), 1, false},
		{"target skipped rank", Stack{Role: RoleTarget, Cards: greens}, NumberCard(6, Green), 1, false},
		{"dragon stack takes anything", Stack{Role: RoleDragon}, NumberCard(7, White), 1, true},
		{"dragon stack takes a dragon", Stack{Role: RoleDragon}, DragonCard(White), 1, true},
		{"dragon stack rejects run", Stack{Role: RoleDragon}, NumberCard(7, White), 2, false},
		{"occupied dragon stack", Stack{Role: RoleDragon, Cards: []Card{DragonCard(Red)}}, DragonCard(Red), 1, false},
		{"flower takes flower", Stack{Role: RoleFlower}, FlowerCard(), 1, true},
		{"flower rejects number", Stack{Role: RoleFlower}, NumberCard(1, Red), 1, false},
		{"sorting empty takes run", Stack{Role: RoleSorting}, NumberCard(9, Red), 5, true},
		{"sorting empty takes dragon", Stack{Role: RoleSorting}, DragonCard(Green), 1, true},
		{"sorting pair", Stack{Role: RoleSorting, Cards: []Card{NumberCard(5, Red)}}, NumberCard(4, Green), 3, true},
		{"sorting same color", Stack{Role: RoleSorting, Cards: []Card{NumberCard(5, Red)}}, NumberCard(4, Red), 1, false},
		{"sorting onto dragon", Stack{Role: RoleSorting, Cards: []Card{DragonCard(Red)}}, NumberCard(4, Green), 1, false},
		{"zero cards", Stack{Role: RoleSorting}, NumberCard(4, Green), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMove(&tt.target, tt.base, tt.n); got != tt.want {
				t.Fatalf("IsValidMove() = %t, want %t", got, tt.want)
			}
		})
	}

	mustPanic(t, "generic", func() { IsValidMove(&Stack{Role: RoleGeneric}, NumberCard(1, Red), 1) })
	mustPanic(t, "animation", func() { IsValidMove(&Stack{Role: RoleAnimation}, NumberCard(1, Red), 1) })
}

func TestIsValidDrop(t *testing.T) {
	target := Stack{Role: RoleSorting, Cards: []Card{NumberCard(6, White)}}
	dragged := Stack{Role: RoleGeneric, Cards: []Card{NumberCard(5, Red), NumberCard(4, Green)}}
	if !IsValidDrop(&target, &dragged) {
		t.Fatalf("expected run 5R,4G to drop on 6W")
	}
	if IsValidDrop(&target, &Stack{Role: RoleGeneric}) {
		t.Fatalf("empty drag must not drop")
	}
	if IsValidDrop(&Stack{Role: RoleTarget}, &dragged) {
		t.Fatalf("run must not drop on a target stack")
	}
}

func TestSingleCardOnEmptyTarget(t *testing.T) {
	stacks := stacksWith(map[int][]Card{firstSorting: {NumberCard(1, Red)}})
	target := &stacks[firstTarget]
	if !IsValidMove(target, NumberCard(1, Red), 1) {
		t.Fatalf("rank 1 must start a target stack")
	}
	if IsValidMove(target, NumberCard(2, Red), 1) {
		t.Fatalf("rank 2 must not start a target stack")
	}
}

func TestCheckButton(t *testing.T) {
	red := []Card{DragonCard(Red)}
	s := firstSorting

	tests := []struct {
		name        string
		cards       map[int][]Card
		wantOK      bool
		wantTarget  int
		wantSources [4]int
	}{
		{
			name:        "four visible, empty dragon stack",
			cards:       map[int][]Card{s: red, s + 1: red, s + 2: red, s + 3: red},
			wantOK:      true,
			wantTarget:  0,
			wantSources: [4]int{s, s + 1, s + 2, s + 3},
		},
		{
			name: "dragon stack already holds one",
			cards: map[int][]Card{
				0: {DragonCard(Green)}, 1: red,
				s: red, s + 4: red, s + 7: {NumberCard(3, Red), DragonCard(Red)},
			},
			wantOK:      true,
			wantTarget:  1,
			wantSources: [4]int{1, s, s + 4, s + 7},
		},
		{
			name:        "first empty dragon stack wins",
			cards:       map[int][]Card{0: {DragonCard(Green)}, 2: red, s: red, s + 1: red, s + 2: red},
			wantOK:      true,
			wantTarget:  1,
			wantSources: [4]int{2, s, s + 1, s + 2},
		},
		{
			name:   "three visible",
			cards:  map[int][]Card{s: red, s + 1: red, s + 2: red},
			wantOK: false,
		},
		{
			name:   "five visible",
			cards:  map[int][]Card{s: red, s + 1: red, s + 2: red, s + 3: red, s + 4: red},
			wantOK: false,
		},
		{
			name: "dragon stacks blocked",
			cards: map[int][]Card{
				0: {DragonCard(Green)}, 1: {DragonCard(White)},
				2: {FaceDownCard(), FaceDownCard(), FaceDownCard(), FaceDownCard()},
				s: red, s + 1: red, s + 2: red, s + 3: red,
			},
			wantOK: false,
		},
		{
			name:   "buried dragon does not count",
			cards:  map[int][]Card{s: red, s + 1: red, s + 2: red, s + 3: {DragonCard(Red), NumberCard(4, Green)}},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := CheckButton(Red, stacksWith(tt.cards))
			if ok != tt.wantOK {
				t.Fatalf("CheckButton() ok = %t, want %t", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if m.Kind != MoveButton || m.Color != Red {
				t.Fatalf("CheckButton() = %s, want a red button move", m)
			}
			if m.Target != tt.wantTarget || m.Sources != tt.wantSources {
				t.Fatalf("CheckButton() target=%d sources=%v, want %d %v", m.Target, m.Sources, tt.wantTarget, tt.wantSources)
			}
		})
	}
}

func TestGetAutomove(t *testing.T) {
	s := firstSorting
	tests := []struct {
		name   string
		cards  map[int][]Card
		want   Move
		wantOK bool
	}{
		{
			name:   "flower goes home",
			cards:  map[int][]Card{s + 1: {NumberCard(4, Red), FlowerCard()}},
			want:   CardsMove(FlowerStack, s+1, 1),
			wantOK: true,
		},
		{
			name:   "flower preferred over ace",
			cards:  map[int][]Card{s: {NumberCard(1, Red)}, s + 1: {FlowerCard()}},
			want:   CardsMove(FlowerStack, s+1, 1),
			wantOK: true,
		},
		{
			name:   "lower source wins",
			cards:  map[int][]Card{s: {NumberCard(1, Green)}, s + 1: {NumberCard(1, Red)}},
			want:   CardsMove(firstTarget, s, 1),
			wantOK: true,
		},
		{
			name:   "dragon stack is a source",
			cards:  map[int][]Card{0: {NumberCard(1, White)}},
			want:   CardsMove(firstTarget, 0, 1),
			wantOK: true,
		},
		{
			name: "gated above lowest plus one",
			cards: map[int][]Card{
				firstTarget:     {NumberCard(1, Red), NumberCard(2, Red)},
				firstTarget + 1: {NumberCard(1, Green)},
				firstTarget + 2: {NumberCard(1, White)},
				s:               {NumberCard(3, Red)},
			},
			wantOK: false,
		},
		{
			name: "at lowest plus one",
			cards: map[int][]Card{
				firstTarget:     {NumberCard(1, Red), NumberCard(2, Red)},
				firstTarget + 1: {NumberCard(1, Green)},
				firstTarget + 2: {NumberCard(1, White)},
				s:               {NumberCard(3, Red)},
				s + 5:           {NumberCard(2, Green)},
			},
			want:   CardsMove(firstTarget+1, s+5, 1),
			wantOK: true,
		},
		{
			name:   "two waits for every ace",
			cards:  map[int][]Card{firstTarget: {NumberCard(1, Red)}, s: {NumberCard(2, Red)}},
			wantOK: false,
		},
		{
			name:   "dragons stay",
			cards:  map[int][]Card{s: {DragonCard(Red)}},
			wantOK: false,
		},
		{
			name:   "empty table",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetAutomove(stacksWith(tt.cards))
			if ok != tt.wantOK {
				t.Fatalf("GetAutomove() ok = %t, want %t (got %s)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Fatalf("GetAutomove() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetAutomoveNeverExceedsGate(t *testing.T) {
	// With two targets empty every rank above 1 is held back, even when the
	// red target would accept it.
	for rank := uint8(2); rank <= TargetFullRank; rank++ {
		var built []Card
		for r := uint8(1); r < rank; r++ {
			built = append(built, NumberCard(r, Red))
		}
		cards := map[int][]Card{
			firstTarget:  built,
			firstSorting: {NumberCard(rank, Red)},
		}
		if m, ok := GetAutomove(stacksWith(cards)); ok {
			t.Fatalf("rank %d: unexpected auto-move %s", rank, m)
		}
	}
}

func TestGetAutomovePanicsOnBadTarget(t *testing.T) {
	stacks := stacksWith(map[int][]Card{firstTarget: {DragonCard(Red)}})
	mustPanic(t, "dragon on target", func() { GetAutomove(stacks) })
}

func TestCheckVictory(t *testing.T) {
	full := func(c Color) []Card {
		out := make([]Card, 0, 9)
		for r := uint8(1); r <= 9; r++ {
			out = append(out, NumberCard(r, c))
		}
		return out
	}
	won := map[int][]Card{
		firstTarget: full(Red), firstTarget + 1: full(Green), firstTarget + 2: full(White),
		FlowerStack: {FlowerCard()},
	}
	if !CheckVictory(stacksWith(won)) {
		t.Fatalf("expected victory")
	}

	won[firstSorting+2] = []Card{DragonCard(Red)}
	if CheckVictory(stacksWith(won)) {
		t.Fatalf("non-empty sorting stack must block victory")
	}

	delete(won, firstSorting+2)
	won[firstTarget+2] = full(White)[:8]
	if CheckVictory(stacksWith(won)) {
		t.Fatalf("short target stack must block victory")
	}
}
