package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"bigtwo/internal/domain"
)

// DefaultLeaderboardID is the leaderboard wins are recorded on when none is configured.
const DefaultLeaderboardID = "bigtwo_wins"

// RulesConfig holds the table rules and match settings. Values come from the
// JSON file first; runtime environment keys override them.
type RulesConfig struct {
	StraightPolicy          string `json:"straight_policy" env:"bigtwo_straight_policy"`
	AllowCombinationOpening bool   `json:"allow_combination_opening" env:"bigtwo_allow_combination_opening"`
	CloseUnbeatableSingle   bool   `json:"close_unbeatable_single" env:"bigtwo_close_unbeatable_single"`
	// TurnDurationSeconds is how long a seat may take before it is auto-played. 0 disables the timer.
	TurnDurationSeconds int    `json:"turn_duration_seconds" env:"bigtwo_turn_duration_sec"`
	HandleSecret        string `json:"-" env:"bigtwo_handle_secret"`
	LeaderboardID       string `json:"leaderboard_id" env:"bigtwo_leaderboard_id"`
}

var (
	cfg      *RulesConfig
	loadOnce sync.Once
	loadErr  error
)

// DefaultRulesConfig returns the configuration used when no file is present.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		StraightPolicy: string(domain.StraightNoWrap),
		LeaderboardID:  DefaultLeaderboardID,
	}
}

// LoadRulesConfig loads the rules configuration from the given path.
func LoadRulesConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read rules config: %w", err)
			return
		}

		c, err := ParseRulesConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetRulesConfig returns a copy of the global rules configuration, or the
// defaults if nothing was loaded.
func GetRulesConfig() RulesConfig {
	if cfg == nil {
		return DefaultRulesConfig()
	}
	return *cfg
}

// ParseRulesConfig decodes a JSON rules document over the defaults.
func ParseRulesConfig(data []byte) (RulesConfig, error) {
	c := DefaultRulesConfig()
	if err := json.Unmarshal(data, &c); err != nil {
		return RulesConfig{}, fmt.Errorf("failed to unmarshal rules config: %w", err)
	}
	if _, err := c.Rules(); err != nil {
		return RulesConfig{}, err
	}
	return c, nil
}

// ApplyEnv overrides fields from the runtime environment map. Keys that are
// absent leave the current value alone. A nil map means no overrides; the
// process environment is never consulted.
func ApplyEnv(c *RulesConfig, environ map[string]string) error {
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(c, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if c.LeaderboardID == "" {
		c.LeaderboardID = DefaultLeaderboardID
	}
	return nil
}

// Rules converts the configuration into a validated rule set.
func (c RulesConfig) Rules() (domain.Rules, error) {
	r := domain.Rules{
		StraightPolicy:          domain.StraightPolicy(c.StraightPolicy),
		AllowCombinationOpening: c.AllowCombinationOpening,
		CloseUnbeatableSingle:   c.CloseUnbeatableSingle,
	}
	if r.StraightPolicy == "" {
		r.StraightPolicy = domain.StraightNoWrap
	}
	if err := r.Validate(); err != nil {
		return domain.Rules{}, fmt.Errorf("invalid rules config: %w", err)
	}
	return r, nil
}

// TurnDuration returns the turn timer, 0 when disabled.
func (c RulesConfig) TurnDuration() time.Duration {
	if c.TurnDurationSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TurnDurationSeconds) * time.Second
}
