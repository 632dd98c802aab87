package domain

import "fmt"

// StraightPolicy decides which five-rank runs count as straights.
type StraightPolicy string

const (
	// StraightNoWrap accepts five consecutive ranks in 3..2 order. J-Q-K-A-2 is
	// the highest straight and no run wraps past the Two.
	StraightNoWrap StraightPolicy = "no_wrap"
	// StraightWrapLow additionally accepts A-2-3-4-5 and 2-3-4-5-6.
	StraightWrapLow StraightPolicy = "wrap_low"
)

// Rules holds the rule variants a Game is played with. It is immutable for the
// lifetime of a Game.
type Rules struct {
	StraightPolicy StraightPolicy
	// AllowCombinationOpening lets the first play be any valid combination
	// containing the opening card instead of the single opening card.
	AllowCombinationOpening bool
	// CloseUnbeatableSingle ends a trick as soon as a single is played that no
	// opponent can beat.
	CloseUnbeatableSingle bool
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{StraightPolicy: StraightNoWrap}
}

// Validate reports an error for unknown rule variants.
func (r Rules) Validate() error {
	switch r.StraightPolicy {
	case StraightNoWrap, StraightWrapLow:
		return nil
	default:
		return fmt.Errorf("unknown straight policy %q", r.StraightPolicy)
	}
}
