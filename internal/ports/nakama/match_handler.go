package nakama

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"solitaire/internal/app"
	"solitaire/internal/config"
	"solitaire/internal/domain"
	"solitaire/internal/ports"
	"solitaire/internal/solver"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	matchTickRate = 10

	// Error codes carried by OpGameError.
	errCodeBadRequest = 400
	errCodeForbidden  = 403
	errCodeConflict   = 409
	errCodeInternal   = 500
)

// MatchState holds the authoritative runtime state for one solo table.
type MatchState struct {
	OwnerID      string                      `json:"owner_id"`      // User allowed to play at this table
	Tick         int64                       `json:"tick"`          // Current tick of the match
	HintsEnabled bool                        `json:"hints_enabled"` // Whether OpHint is answered
	Presences    map[string]runtime.Presence `json:"-"`             // Map UserId -> Presence for targeted messaging
	App          *app.Service                `json:"-"`             // Solitaire app service with game logic
	Tickets      *app.TicketService          `json:"-"`             // Verifies deal tickets; nil when no secret is configured
	Game         *app.Game                   `json:"-"`             // Current game (nil before the first deal)
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	env := runtimeEnv(ctx)
	var verdicts ports.VerdictPort
	if nk != nil {
		verdicts = NewNakamaVerdictAdapter(nk)
	}

	state := &MatchState{
		Tick:         time.Now().Unix(),
		HintsEnabled: config.HintsEnabled(),
		Presences:    make(map[string]runtime.Presence),
		App:          app.NewService(nil, solverSettings(env), verdicts),
		Tickets:      ticketService(env),
	}
	if owner, ok := params["owner"].(string); ok {
		state.OwnerID = owner
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, matchTickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.OwnerID != "" && presence.GetUserId() != matchState.OwnerID {
		return state, false, "Match is private"
	}
	if _, present := matchState.Presences[presence.GetUserId()]; !present && len(matchState.Presences) > 0 {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if matchState.OwnerID == "" {
			matchState.OwnerID = p.GetUserId()
			logger.Debug("MatchJoin: Owner set to %s.", p.GetUserId())
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)

	// A rejoining player gets the table they left.
	if matchState.Game != nil {
		mh.sendSnapshot(matchState, dispatcher, logger, matchState.OwnerID)
	}
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s left.", p.GetUserId())
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no players.")
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.OwnerID {
			logger.Warn("MatchLoop: Ignoring opcode %d from non-owner %s", msg.GetOpCode(), msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpNewGame:
			mh.handleNewGame(ctx, matchState, dispatcher, logger, msg)
		case OpBeginDrag:
			mh.handleBeginDrag(ctx, matchState, dispatcher, logger, msg)
		case OpDrop:
			mh.handleDrop(ctx, matchState, dispatcher, logger, msg)
		case OpCancelDrag:
			mh.handleCancelDrag(ctx, matchState, dispatcher, logger, msg)
		case OpClickButton:
			mh.handleClickButton(ctx, matchState, dispatcher, logger, msg)
		case OpGiveUp:
			mh.handleGiveUp(ctx, matchState, dispatcher, logger, msg)
		case OpHint:
			mh.handleHint(ctx, matchState, dispatcher, logger, msg)
		case OpSolve:
			mh.handleSolve(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handleNewGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	request, err := decodeFields(msg.GetData())
	if err != nil {
		logger.Warn("handleNewGame: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid request")
		return
	}

	seed, err := mh.resolveSeed(state, request)
	if err != nil {
		logger.Warn("handleNewGame: User %s sent a bad deal: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}

	if state.Game != nil && !state.Game.Ended() {
		logger.Info("handleNewGame: Abandoning game %s for a new deal.", state.Game.ID)
	}
	game, events := state.App.NewGame(seed)
	state.Game = game
	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	logger.Info("handleNewGame: Dealt game %s with seed %d.", game.ID, seed)
}

// resolveSeed picks the deal: a ticket wins over an explicit seed, and with
// neither a random seed is drawn.
func (mh *matchHandler) resolveSeed(state *MatchState, request *structpb.Struct) (uint64, error) {
	if ticket := stringField(request, "ticket"); ticket != "" {
		if state.Tickets == nil {
			return 0, app.ErrInvalidTicket
		}
		return state.Tickets.Verify(ticket)
	}
	if raw := stringField(request, "seed"); raw != "" {
		return parseSeed(raw)
	}
	return state.App.RandomSeed(), nil
}

func (mh *matchHandler) handleBeginDrag(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	request, err := decodeFields(msg.GetData())
	if err != nil {
		logger.Warn("handleBeginDrag: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid request")
		return
	}
	stack, err := intField(request, "stack")
	if err == nil {
		var start int
		start, err = intField(request, "start")
		if err == nil {
			var events []app.Event
			events, err = state.App.BeginDrag(state.Game, stack, start)
			if err == nil {
				for _, ev := range events {
					mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
				}
				return
			}
		}
	}
	logger.Warn("handleBeginDrag: User %s failed to begin drag: %v", senderID, err)
	mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
}

func (mh *matchHandler) handleDrop(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	request, err := decodeFields(msg.GetData())
	if err != nil {
		logger.Warn("handleDrop: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid request")
		return
	}
	target, err := intField(request, "stack")
	if err != nil {
		logger.Warn("handleDrop: User %s sent no target: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}

	events, err := state.App.Drop(state.Game, target)
	if err != nil {
		logger.Warn("handleDrop: User %s failed to drop on %d: %v", senderID, target, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		// The dragged cards went back to their source; resync the client.
		if state.Game != nil {
			mh.sendSnapshot(state, dispatcher, logger, senderID)
		}
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleCancelDrag(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.App.CancelDrag(state.Game)
	if err != nil {
		logger.Warn("handleCancelDrag: User %s failed to cancel drag: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleClickButton(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	request, err := decodeFields(msg.GetData())
	if err != nil {
		logger.Warn("handleClickButton: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid request")
		return
	}
	color, ok := domain.ParseColor(stringField(request, "color"))
	if !ok {
		logger.Warn("handleClickButton: User %s sent unknown color %q", senderID, stringField(request, "color"))
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "unknown color")
		return
	}

	events, err := state.App.ClickButton(state.Game, color)
	// A failed click can still release a stale button.
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	if err != nil {
		logger.Warn("handleClickButton: User %s failed to click %s: %v", senderID, color, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
	}
}

func (mh *matchHandler) handleGiveUp(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.App.GiveUp(state.Game)
	if err != nil {
		logger.Warn("handleGiveUp: User %s failed to give up: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleHint(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if !state.HintsEnabled {
		mh.sendError(state, dispatcher, logger, senderID, errCodeForbidden, "hints are disabled")
		return
	}

	move, err := state.App.Hint(state.Game)
	if err != nil && !errors.Is(err, app.ErrNoHint) {
		logger.Warn("handleHint: User %s failed to get a hint: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	fields := map[string]interface{}{"game_id": state.Game.ID, "found": err == nil}
	if err == nil {
		fields["move"] = moveToValue(move)
	}
	mh.sendTo(state, dispatcher, logger, senderID, OpHintResult, fields)
}

func (mh *matchHandler) handleSolve(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	started := time.Now()
	res, err := state.App.SolveGame(state.Game)
	if err != nil {
		logger.Warn("handleSolve: User %s failed to solve: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	logger.Info("handleSolve: Game %s is %s (depth=%d, expanded=%d, took %s).", state.Game.ID, res.Verdict, res.Depth, res.Expanded, time.Since(started))

	mh.sendTo(state, dispatcher, logger, senderID, OpSolveResult, solveFields(state.Game.ID, res))
}

func solveFields(gameID string, res solver.Result) map[string]interface{} {
	return map[string]interface{}{
		"game_id":  gameID,
		"verdict":  res.Verdict.String(),
		"depth":    res.Depth,
		"expanded": res.Expanded,
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var fields map[string]interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpSnapshot
		p := ev.Payload.(app.GameStartedPayload)
		logger.Debug("Event: game_started (game=%s, seed=%d)", p.GameID, p.Seed)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"seed":    formatSeed(p.Seed),
			"phase":   string(app.PhasePlaying),
			"moves":   0,
			"stacks":  stacksToList(p.Stacks),
			"buttons": buttonsToList(p.Buttons),
		}
	case app.EventDragStarted:
		opCode = OpDragStarted
		p := ev.Payload.(app.DragStartedPayload)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"source":  p.Source,
			"cards":   cardsToList(p.Cards),
		}
	case app.EventDragCancelled:
		opCode = OpDragCancelled
		p := ev.Payload.(app.DragCancelledPayload)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"source":  p.Source,
		}
	case app.EventCardsMoved:
		opCode = OpCardsMoved
		p := ev.Payload.(app.CardsMovedPayload)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"source":  p.Source,
			"target":  p.Target,
			"cards":   cardsToList(p.Cards),
			"auto":    p.Auto,
		}
	case app.EventDragonsCollected:
		opCode = OpDragonsCollected
		p := ev.Payload.(app.DragonsCollectedPayload)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"color":   p.Color.String(),
			"target":  p.Target,
			"sources": sourcesToList(p.Sources),
		}
	case app.EventButtonChanged:
		opCode = OpButtonChanged
		p := ev.Payload.(app.ButtonChangedPayload)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"color":   p.Color.String(),
			"state":   p.State.String(),
		}
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		fields = map[string]interface{}{
			"game_id": p.GameID,
			"won":     p.Won,
			"moves":   p.Moves,
		}
		logger.Info("Event: game_ended (game=%s, won=%t, moves=%d)", p.GameID, p.Won, p.Moves)
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := encodeFields(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendSnapshot sends the full table of the current game to userID.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	game := state.Game
	fields := map[string]interface{}{
		"game_id": game.ID,
		"seed":    formatSeed(game.Seed),
		"phase":   string(game.Phase),
		"moves":   game.Moves,
		"stacks":  stacksToList(game.Board.Snapshot()),
		"buttons": buttonsToList(game.Board.Buttons),
	}
	mh.sendTo(state, dispatcher, logger, userID, OpSnapshot, fields)
}

// sendError sends an OpGameError message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	mh.sendTo(state, dispatcher, logger, userID, OpGameError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func (mh *matchHandler) sendTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, fields map[string]interface{}) {
	bytes, err := encodeFields(fields)
	if err != nil {
		logger.Error("Failed to marshal message for op %d: %v", opCode, err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send op %d to %s: Presence not found", opCode, userID)
		return
	}

	dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{presence}, nil, true)
}

// errorCode maps app errors onto OpGameError codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNotPlaying), errors.Is(err, app.ErrDragPending):
		return errCodeConflict
	case errors.Is(err, app.ErrUnknownStack), errors.Is(err, app.ErrIllegalDrag),
		errors.Is(err, app.ErrIllegalDrop), errors.Is(err, app.ErrNoDrag),
		errors.Is(err, app.ErrButtonInactive), errors.Is(err, app.ErrInvalidTicket):
		return errCodeBadRequest
	case errors.Is(err, solver.ErrUnknownStrategy):
		return errCodeInternal
	default:
		return errCodeBadRequest
	}
}

func matchLabel(state *MatchState) (string, error) {
	phase := "idle"
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":  "solitaire",
		"owner": state.OwnerID,
		"phase": phase,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// runtimeEnv returns the Nakama runtime env, or an empty map outside Nakama.
func runtimeEnv(ctx context.Context) map[string]string {
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		return env
	}
	return map[string]string{}
}

func solverSettings(env map[string]string) app.SolverSettings {
	settings := app.SolverSettings{
		Strategy:   solver.Strategy(config.SolverStrategy()),
		Iterations: config.SolverIterations(),
	}
	if val, ok := env[envSolverStrategy]; ok {
		if s, err := solver.ParseStrategy(val); err == nil {
			settings.Strategy = s
		}
	}
	if val, ok := env[envSolverIterations]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			settings.Iterations = i
		}
	}
	return settings
}

func ticketService(env map[string]string) *app.TicketService {
	secret := env[envTicketSecret]
	if secret == "" {
		return nil
	}
	return app.NewTicketService(secret, config.TicketIssuer(), config.TicketTTL())
}
