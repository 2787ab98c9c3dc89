package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"solitaire/internal/domain"
	"solitaire/internal/ports"
	"solitaire/internal/solver"
)

// SolverSettings picks the search used to assess deals.
type SolverSettings struct {
	Strategy   solver.Strategy
	Iterations int
}

// Service contains solitaire use-cases operating on domain state.
type Service struct {
	rng      *rand.Rand
	settings SolverSettings
	verdicts ports.VerdictPort
	now      func() time.Time
}

// NewService constructs a Service. A nil rng is replaced by a time-seeded
// one; verdicts may be nil, in which case deals are always solved afresh.
func NewService(rng *rand.Rand, settings SolverSettings, verdicts ports.VerdictPort) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if settings.Strategy == "" {
		settings.Strategy = solver.StrategyPriority
	}
	return &Service{rng: rng, settings: settings, verdicts: verdicts, now: time.Now}
}

var (
	ErrNotPlaying     = errors.New("game is not in playing phase")
	ErrUnknownStack   = errors.New("stack index out of range")
	ErrDragPending    = errors.New("a drag is already in progress")
	ErrIllegalDrag    = errors.New("cards cannot be picked up from there")
	ErrNoDrag         = errors.New("no drag in progress")
	ErrIllegalDrop    = errors.New("cards cannot be dropped there")
	ErrButtonInactive = errors.New("dragon button is not active")
	ErrNoHint         = errors.New("no move available")
)

// RandomSeed draws a fresh deal seed.
func (s *Service) RandomSeed() uint64 {
	return s.rng.Uint64()
}

// NewGame deals the table for seed and runs the first settle pass.
func (s *Service) NewGame(seed uint64) (*Game, []Event) {
	board := domain.NewBoard()
	board.Deal(domain.ShuffleDeck(domain.NewDeck(), seed))

	game := &Game{
		ID:        uuid.NewString(),
		Seed:      seed,
		Board:     board,
		Phase:     PhasePlaying,
		StartedAt: s.now(),
	}

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:  game.ID,
			Seed:    seed,
			Stacks:  board.Snapshot(),
			Buttons: board.Buttons,
		},
	}}
	return game, append(events, s.settle(game)...)
}

// BeginDrag picks up the run starting at index start of stack src.
func (s *Service) BeginDrag(game *Game, src, start int) ([]Event, error) {
	if err := s.checkPlaying(game); err != nil {
		return nil, err
	}
	if err := checkStack(src); err != nil {
		return nil, err
	}
	if _, _, ok := game.Board.Dragging(); ok {
		return nil, ErrDragPending
	}
	if !game.Board.BeginDrag(src, start) {
		return nil, fmt.Errorf("%w: stack %d from card %d", ErrIllegalDrag, src, start)
	}
	_, cards, _ := game.Board.Dragging()
	return []Event{{
		Kind: EventDragStarted,
		Payload: DragStartedPayload{
			GameID: game.ID,
			Source: src,
			Cards:  append([]domain.Card(nil), cards...),
		},
	}}, nil
}

// Drop places the dragged run on target. A rejected drop returns the run to
// its source and reports ErrIllegalDrop.
func (s *Service) Drop(game *Game, target int) ([]Event, error) {
	if err := s.checkPlaying(game); err != nil {
		return nil, err
	}
	src, _, ok := game.Board.Dragging()
	if !ok {
		return nil, ErrNoDrag
	}
	if err := checkStack(target); err != nil {
		game.Board.CancelDrag()
		return nil, err
	}
	m, cards, ok := game.Board.Drop(target)
	if !ok {
		return nil, fmt.Errorf("%w: stack %d onto %d", ErrIllegalDrop, src, target)
	}
	game.Moves++

	events := []Event{{
		Kind: EventCardsMoved,
		Payload: CardsMovedPayload{
			GameID: game.ID,
			Source: m.Source,
			Target: m.Target,
			Cards:  cards,
		},
	}}
	return append(events, s.settle(game)...), nil
}

// CancelDrag returns the dragged run to its source.
func (s *Service) CancelDrag(game *Game) ([]Event, error) {
	if err := s.checkPlaying(game); err != nil {
		return nil, err
	}
	src, _, ok := game.Board.Dragging()
	if !ok {
		return nil, ErrNoDrag
	}
	game.Board.CancelDrag()
	return []Event{{
		Kind:    EventDragCancelled,
		Payload: DragCancelledPayload{GameID: game.ID, Source: src},
	}}, nil
}

// ClickButton fires the dragon button of color.
func (s *Service) ClickButton(game *Game, color domain.Color) ([]Event, error) {
	if err := s.checkPlaying(game); err != nil {
		return nil, err
	}
	if _, _, ok := game.Board.Dragging(); ok {
		return nil, ErrDragPending
	}
	before := game.Board.Buttons
	m, ok := game.Board.ClickButton(color)
	if !ok {
		// A stale active button is released by the board; report the change.
		events := buttonChanges(game, before)
		return events, fmt.Errorf("%w: %s", ErrButtonInactive, color)
	}
	game.Moves++

	events := []Event{{
		Kind: EventDragonsCollected,
		Payload: DragonsCollectedPayload{
			GameID:  game.ID,
			Color:   m.Color,
			Target:  m.Target,
			Sources: m.Sources,
		},
	}}
	events = append(events, buttonChanges(game, before)...)
	return append(events, s.settle(game)...), nil
}

// GiveUp ends the game as lost.
func (s *Service) GiveUp(game *Game) ([]Event, error) {
	if err := s.checkPlaying(game); err != nil {
		return nil, err
	}
	game.Board.CancelDrag()
	return []Event{s.end(game, false)}, nil
}

// Hint suggests the first legal move on the current table.
func (s *Service) Hint(game *Game) (domain.Move, error) {
	if err := s.checkPlaying(game); err != nil {
		return domain.Move{}, err
	}
	if _, _, ok := game.Board.Dragging(); ok {
		return domain.Move{}, ErrDragPending
	}
	moves := domain.PossibleMoves(game.Board.Stacks)
	if len(moves) == 0 {
		return domain.Move{}, ErrNoHint
	}
	return moves[0], nil
}

// settle runs the rule pass and turns its effects into events. A settled
// winning table ends the game.
func (s *Service) settle(game *Game) []Event {
	before := game.Board.Buttons
	var events []Event
	for _, am := range game.Board.Settle() {
		events = append(events, Event{
			Kind: EventCardsMoved,
			Payload: CardsMovedPayload{
				GameID: game.ID,
				Source: am.Move.Source,
				Target: am.Move.Target,
				Cards:  []domain.Card{am.Card},
				Auto:   true,
			},
		})
	}
	events = append(events, buttonChanges(game, before)...)
	if game.Board.Victory() {
		events = append(events, s.end(game, true))
	}
	return events
}

func (s *Service) end(game *Game, won bool) Event {
	game.Phase = PhaseLost
	if won {
		game.Phase = PhaseWon
	}
	game.EndedAt = s.now()
	return Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{GameID: game.ID, Won: won, Moves: game.Moves},
	}
}

func (s *Service) checkPlaying(game *Game) error {
	if game == nil || game.Phase != PhasePlaying {
		return ErrNotPlaying
	}
	return nil
}

func checkStack(i int) error {
	if i < 0 || i >= domain.StackCount {
		return fmt.Errorf("%w: %d", ErrUnknownStack, i)
	}
	return nil
}

func buttonChanges(game *Game, before [3]domain.Button) []Event {
	var events []Event
	for i, btn := range game.Board.Buttons {
		if btn.State == before[i].State {
			continue
		}
		events = append(events, Event{
			Kind: EventButtonChanged,
			Payload: ButtonChangedPayload{
				GameID: game.ID,
				Color:  btn.Color,
				State:  btn.State,
			},
		})
	}
	return events
}
