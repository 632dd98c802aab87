package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// matchFinder is the part of runtime.NakamaModule quick match needs.
type matchFinder interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcReplayGame, rpcReplayGame)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return quickMatch(ctx, logger, nk)
}

// quickMatch returns a lobby with an open seat, creating one if none exists.
func quickMatch(ctx context.Context, logger runtime.Logger, nk matchFinder) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	query := quickMatchQuery()

	limit := 10
	authoritative := true

	minSize := 0
	maxSize := 3 // ensure < 4 players

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("quickMatch [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
		logger.Info("quickMatch [User:%s]: Found existing match %s", userID, resp.MatchID)
	} else {
		// Seat/owner assignment happens in MatchJoin (server-authoritative).
		resp.MatchID, err = nk.MatchCreate(ctx, MatchNameBigTwo, map[string]interface{}{})
		if err != nil {
			logger.Error("quickMatch [User:%s]: Failed to create match: %v", userID, err)
			return "", err
		}
		resp.IsNew = true
		logger.Info("quickMatch [User:%s]: Created new match %s", userID, resp.MatchID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func quickMatchQuery() string {
	return fmt.Sprintf("+label.%s:>=1 +label.%s:%s +label.%s:%s",
		MatchLabelKey_OpenSeats, MatchLabelKey_Game, GameLabel, MatchLabelKey_Phase, phaseLobby)
}
