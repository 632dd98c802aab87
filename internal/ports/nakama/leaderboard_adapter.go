package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"bigtwo/internal/ports"
)

// leaderboardWriter is the part of runtime.NakamaModule the adapter needs.
type leaderboardWriter interface {
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
}

// NakamaLeaderboardAdapter implements ports.WinRecorder on an incrementing Nakama leaderboard.
type NakamaLeaderboardAdapter struct {
	nk            leaderboardWriter
	leaderboardID string
}

// NewNakamaLeaderboardAdapter creates a new leaderboard adapter.
func NewNakamaLeaderboardAdapter(nk leaderboardWriter, leaderboardID string) *NakamaLeaderboardAdapter {
	return &NakamaLeaderboardAdapter{nk: nk, leaderboardID: leaderboardID}
}

// RecordWin adds one to the winner's score.
func (a *NakamaLeaderboardAdapter) RecordWin(ctx context.Context, rec ports.WinRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("userID is required")
	}

	metadata := map[string]interface{}{
		"last_game_id": rec.GameID,
	}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, a.leaderboardID, rec.UserID, rec.Username, 1, 0, metadata, nil); err != nil {
		return fmt.Errorf("failed to record win for user %s: %w", rec.UserID, err)
	}
	return nil
}

// ensureLeaderboard creates the wins leaderboard if it does not exist yet.
func ensureLeaderboard(ctx context.Context, nk runtime.NakamaModule, id string) error {
	// Authoritative, descending, incremental, never reset.
	return nk.LeaderboardCreate(ctx, id, true, "desc", "incr", "", map[string]interface{}{"game": GameLabel}, true)
}

var _ ports.WinRecorder = (*NakamaLeaderboardAdapter)(nil)
