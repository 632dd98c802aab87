package nakama

import (
	"context"
	"database/sql"

	"bigtwo/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, the match handler and the wins leaderboard for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadRulesConfig(RulesConfigPath); err != nil {
		logger.Warn("Could not load rules config, using defaults: %v", err)
	}
	cfg := loadRulesConfig(ctx, logger)
	if _, err := cfg.Rules(); err != nil {
		return err
	}

	if err := ensureLeaderboard(ctx, nk, cfg.LeaderboardID); err != nil {
		logger.Error("Failed to create leaderboard %s: %v", cfg.LeaderboardID, err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBigTwo, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Big Two Go module loaded (straight policy %s, turn %ds).", cfg.StraightPolicy, cfg.TurnDurationSeconds)
	return nil
}
