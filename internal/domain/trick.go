package domain

// State is the turn/trick state of a Game.
type State string

const (
	// StateAwaitingLead means no combination is on the table and the player to
	// move may lead anything valid.
	StateAwaitingLead State = "awaiting_lead"
	// StateTrickActive means a leading combination exists; it must be beaten or passed.
	StateTrickActive State = "trick_active"
	// StateRoundComplete is transient: every other active player passed on the
	// last play. It resolves immediately to StateAwaitingLead.
	StateRoundComplete State = "round_complete"
	// StateGameOver means a player has emptied their hand.
	StateGameOver State = "game_over"
)

// Trick is the in-progress exchange topped by Lead. It is a value: every
// method returns a new Trick and leaves the receiver untouched.
type Trick struct {
	Lead *Combination
	// LastSeat is the seat that played Lead, -1 when there is none.
	LastSeat int
	// Passes counts consecutive passes since Lead was played.
	Passes int
}

// NewTrick returns an empty trick.
func NewTrick() Trick {
	return Trick{LastSeat: -1}
}

// HasLead reports whether a combination is on the table.
func (t Trick) HasLead() bool {
	return t.Lead != nil
}

// Arity is the number of cards a continuation must have, 0 for a fresh trick.
func (t Trick) Arity() int {
	if t.Lead == nil {
		return 0
	}
	return t.Lead.Arity()
}

// WithPlay records a play that tops the trick and resets the pass counter.
func (t Trick) WithPlay(seat int, c Combination) Trick {
	lead := c
	return Trick{Lead: &lead, LastSeat: seat}
}

// WithPass records one more consecutive pass.
func (t Trick) WithPass() Trick {
	t.Passes++
	return t
}

// Resolved reports whether everyone but the last player has passed.
func (t Trick) Resolved(activePlayers int) bool {
	return t.HasLead() && t.Passes >= activePlayers-1
}

// NextSeat returns the first seat after from, clockwise, whose player is still
// active. It returns from when nobody else is.
func NextSeat(from int, active [NumPlayers]bool) int {
	for step := 1; step <= NumPlayers; step++ {
		seat := (from + step) % NumPlayers
		if active[seat] {
			return seat
		}
	}
	return from
}
