package domain

import "golang.org/x/exp/rand"

// DeckSize is the number of cards in a full deal.
const DeckSize = 40

// NewDeck returns the ordered 40-card deck: four dragons per color, ranks
// 1..9 per color and the flower.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for i := 0; i < 4; i++ {
		for _, c := range Colors {
			deck = append(deck, DragonCard(c))
		}
	}
	for r := uint8(1); r <= TargetFullRank; r++ {
		for _, c := range Colors {
			deck = append(deck, NumberCard(r, c))
		}
	}
	return append(deck, FlowerCard())
}

// ShuffleDeck returns a copy of deck shuffled by a source seeded with seed.
// Equal seeds give equal deals.
func ShuffleDeck(deck []Card, seed uint64) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
