package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to get their solo table.
	RpcQuickMatch = "quick_match"
	// RpcAssessDeal solves a seeded deal and returns its verdict.
	RpcAssessDeal = "assess_deal"
	// RpcDealTicket signs a seed into a shareable deal ticket.
	RpcDealTicket = "deal_ticket"

	// MatchNameSolitaire is the authoritative match handler name registered with Nakama.
	MatchNameSolitaire = "solitaire_match"

	// VerdictCollection is the storage collection holding deal verdicts.
	VerdictCollection = "solitaire_verdicts"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpNewGame     int64 = 1
	OpBeginDrag   int64 = 2
	OpDrop        int64 = 3
	OpCancelDrag  int64 = 4
	OpClickButton int64 = 5
	OpGiveUp      int64 = 6
	OpHint        int64 = 7
	OpSolve       int64 = 8

	// Server -> Client events
	OpSnapshot         int64 = 101
	OpDragStarted      int64 = 102
	OpDragCancelled    int64 = 103
	OpCardsMoved       int64 = 104
	OpDragonsCollected int64 = 105
	OpButtonChanged    int64 = 106
	OpGameEnded        int64 = 107
	OpHintResult       int64 = 108
	OpSolveResult      int64 = 109
	OpGameError        int64 = 199
)

// Runtime env keys.
const (
	envTicketSecret     = "solitaire_ticket_secret"
	envSolverStrategy   = "solitaire_solver_strategy"
	envSolverIterations = "solitaire_solver_iterations"
)

// gameConfigPath is relative to the Nakama data directory.
const gameConfigPath = "data/solitaire_config.json"
