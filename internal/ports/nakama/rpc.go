package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"solitaire/internal/app"
	"solitaire/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama RPC error codes (gRPC status codes).
const (
	rpcCodeInvalidArgument = 3
	rpcCodeInternal        = 13
)

// QuickMatchResponse is the payload returned to clients asking for their table.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// DealTicketResponse carries a signed deal ticket and the seed it encodes.
type DealTicketResponse struct {
	Ticket string `json:"ticket"`
	Seed   string `json:"seed"`
}

// dealRequest is the payload shared by assess_deal and deal_ticket. Seed is a
// decimal string; Ticket, when set, takes precedence.
type dealRequest struct {
	Seed   string `json:"seed"`
	Ticket string `json:"ticket"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcAssessDeal, rpcAssessDeal); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcDealTicket, rpcDealTicket)
}

// rpcQuickMatch returns the caller's own table, creating it when none is running.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("user id missing from context", rpcCodeInvalidArgument)
	}

	query := fmt.Sprintf("+label.game:solitaire +label.owner:%q", userID)
	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
	} else {
		matchID, err := nk.MatchCreate(ctx, MatchNameSolitaire, map[string]interface{}{"owner": userID})
		if err != nil {
			logger.Error("MatchCreate error: %v", err)
			return "", err
		}
		resp.MatchID, resp.IsNew = matchID, true
	}

	b, _ := json.Marshal(resp)
	return string(b), nil
}

// rpcAssessDeal solves the opening table of a deal and returns its verdict.
func rpcAssessDeal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("rpcAssessDeal: Could not load game config: %v", err)
	}
	env := runtimeEnv(ctx)

	req, err := parseDealRequest(payload)
	if err != nil {
		return "", runtime.NewError(err.Error(), rpcCodeInvalidArgument)
	}
	seed, err := requestSeed(req, ticketService(env))
	if err != nil {
		return "", runtime.NewError(err.Error(), rpcCodeInvalidArgument)
	}

	svc := app.NewService(nil, solverSettings(env), NewNakamaVerdictAdapter(nk))
	verdict, err := svc.AssessDeal(ctx, seed)
	if err != nil {
		logger.Error("rpcAssessDeal: Failed to assess seed %d: %v", seed, err)
		return "", runtime.NewError("failed to assess deal", rpcCodeInternal)
	}
	logger.Info("rpcAssessDeal: Seed %d is %s (depth=%d, expanded=%d).", seed, verdict.Verdict, verdict.Depth, verdict.Expanded)

	b, err := json.Marshal(verdict)
	if err != nil {
		return "", runtime.NewError("failed to marshal verdict", rpcCodeInternal)
	}
	return string(b), nil
}

// rpcDealTicket signs a seed so the deal can be shared. Without a seed a
// random one is drawn.
func rpcDealTicket(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("rpcDealTicket: Could not load game config: %v", err)
	}
	tickets := ticketService(runtimeEnv(ctx))
	if tickets == nil {
		logger.Error("rpcDealTicket: %s is not configured", envTicketSecret)
		return "", runtime.NewError("deal tickets are not configured", rpcCodeInternal)
	}

	req, err := parseDealRequest(payload)
	if err != nil {
		return "", runtime.NewError(err.Error(), rpcCodeInvalidArgument)
	}
	var seed uint64
	if req.Seed != "" {
		if seed, err = parseSeed(req.Seed); err != nil {
			return "", runtime.NewError(err.Error(), rpcCodeInvalidArgument)
		}
	} else {
		seed = app.NewService(nil, app.SolverSettings{}, nil).RandomSeed()
	}

	ticket, err := tickets.Issue(seed)
	if err != nil {
		logger.Error("rpcDealTicket: Failed to sign seed %d: %v", seed, err)
		return "", runtime.NewError("failed to sign ticket", rpcCodeInternal)
	}

	b, _ := json.Marshal(DealTicketResponse{Ticket: ticket, Seed: formatSeed(seed)})
	return string(b), nil
}

func parseDealRequest(payload string) (dealRequest, error) {
	var req dealRequest
	if payload == "" {
		return req, nil
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, fmt.Errorf("invalid payload: %w", err)
	}
	return req, nil
}

func requestSeed(req dealRequest, tickets *app.TicketService) (uint64, error) {
	if req.Ticket != "" {
		if tickets == nil {
			return 0, app.ErrInvalidTicket
		}
		return tickets.Verify(req.Ticket)
	}
	if req.Seed == "" {
		return 0, fmt.Errorf("seed or ticket is required")
	}
	return parseSeed(req.Seed)
}
