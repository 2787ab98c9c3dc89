package app

import "solitaire/internal/domain"

// EventKind identifies emitted game events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventDragStarted      EventKind = "drag_started"
	EventDragCancelled    EventKind = "drag_cancelled"
	EventCardsMoved       EventKind = "cards_moved"
	EventDragonsCollected EventKind = "dragons_collected"
	EventButtonChanged    EventKind = "button_changed"
	EventGameEnded        EventKind = "game_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID  string
	Seed    uint64
	Stacks  []domain.Stack
	Buttons [3]domain.Button
}

type DragStartedPayload struct {
	GameID string
	Source int
	Cards  []domain.Card
}

type DragCancelledPayload struct {
	GameID string
	Source int
}

type CardsMovedPayload struct {
	GameID string
	Source int
	Target int
	Cards  []domain.Card
	// Auto is set for house-keeping moves made by the settle pass.
	Auto bool
}

type DragonsCollectedPayload struct {
	GameID  string
	Color   domain.Color
	Target  int
	Sources [4]int
}

type ButtonChangedPayload struct {
	GameID string
	Color  domain.Color
	State  domain.ButtonState
}

type GameEndedPayload struct {
	GameID string
	Won    bool
	Moves  int
}
