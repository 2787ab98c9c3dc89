package domain

import "fmt"

// Color is one of the three suit colors shared by dragons and number cards.
type Color int8

const (
	Red Color = iota
	Green
	White
)

// Colors lists every color in button order.
var Colors = [3]Color{Red, Green, White}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case White:
		return "white"
	default:
		return fmt.Sprintf("color(%d)", int8(c))
	}
}

// ParseColor maps a color name back to its Color.
func ParseColor(s string) (Color, bool) {
	for _, c := range Colors {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Kind tags which variant a Card holds.
type Kind int8

const (
	// FaceDown is an opaque placeholder; collected dragon blocks are made of it.
	FaceDown Kind = iota
	Flower
	Dragon
	Number
)

func (k Kind) String() string {
	switch k {
	case FaceDown:
		return "facedown"
	case Flower:
		return "flower"
	case Dragon:
		return "dragon"
	case Number:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", int8(k))
	}
}

// Card is a small comparable value. Rank is only meaningful for Number cards
// and Color only for Dragon and Number cards; constructors keep the unused
// fields zeroed so equal cards compare equal.
type Card struct {
	Kind  Kind
	Rank  uint8 // 1..9
	Color Color
}

// NumberCard returns Number(rank, color).
func NumberCard(rank uint8, color Color) Card {
	return Card{Kind: Number, Rank: rank, Color: color}
}

// DragonCard returns Dragon(color).
func DragonCard(color Color) Card {
	return Card{Kind: Dragon, Color: color}
}

// FlowerCard returns the unique flower card.
func FlowerCard() Card {
	return Card{Kind: Flower}
}

// FaceDownCard returns the face-down placeholder.
func FaceDownCard() Card {
	return Card{}
}

// IsNumber reports whether c is a number card.
func (c Card) IsNumber() bool { return c.Kind == Number }

// IsDragonOf reports whether c is a dragon of the given color.
func (c Card) IsDragonOf(color Color) bool {
	return c.Kind == Dragon && c.Color == color
}

func (c Card) String() string {
	switch c.Kind {
	case FaceDown:
		return "facedown"
	case Flower:
		return "flower"
	case Dragon:
		return "dragon:" + c.Color.String()
	case Number:
		return fmt.Sprintf("%d:%s", c.Rank, c.Color)
	default:
		return fmt.Sprintf("card(%d)", int8(c.Kind))
	}
}
