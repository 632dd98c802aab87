package domain

import "fmt"

const (
	// NumPlayers is the fixed table size.
	NumPlayers = 4
	// HandSize is the number of cards each player is dealt.
	HandSize = DeckSize / NumPlayers
)

// Player holds the state for a participant in a game.
type Player struct {
	UserID string
	Seat   int // 0-based, clockwise
	Hand   []Card
}

// InRound reports whether the player still holds cards.
func (p *Player) InRound() bool {
	return len(p.Hand) > 0
}

// Move is one accepted action, kept for replay.
type Move struct {
	Seat  int
	Pass  bool
	Cards []Card
}

// Game is the authoritative state of one Big Two game. It is not safe for
// concurrent use: the owner must serialize every call.
type Game struct {
	Rules   Rules
	Players [NumPlayers]*Player
	State   State
	// Turn is the seat expected to act next.
	Turn  int
	Trick Trick
	// OpeningSeat held the opening card when the game was dealt.
	OpeningSeat int
	// Opened is set once the first play has been accepted.
	Opened  bool
	Winner  int // -1 until StateGameOver
	History []Move
}

// Transition describes the state change caused by one accepted action.
type Transition struct {
	Seat int
	// Combination is the play, nil for a pass.
	Combination *Combination
	From        State
	To          State
	// TrickClosed is set when the trick was resolved by this action. The game
	// passes through StateRoundComplete and is back in StateAwaitingLead by
	// the time the action returns, so To never holds StateRoundComplete.
	TrickClosed bool
	TrickWinner int // -1 unless TrickClosed
	// NextSeat is the seat to act next, -1 once the game is over.
	NextSeat int
	Winner   int // -1 unless the game is over
}

// NewGame seats the players with their dealt hands. The player holding the
// opening card moves first.
func NewGame(userIDs [NumPlayers]string, hands [NumPlayers][]Card, rules Rules) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	var all []Card
	for _, h := range hands {
		all = append(all, h...)
	}
	if dup, ok := firstDuplicate(all); ok {
		return nil, fmt.Errorf("new game: %s dealt twice", dup)
	}

	g := &Game{
		Rules:       rules,
		State:       StateAwaitingLead,
		Trick:       NewTrick(),
		OpeningSeat: -1,
		Winner:      -1,
	}
	for seat := range hands {
		hand := make([]Card, len(hands[seat]))
		copy(hand, hands[seat])
		SortByRank(hand)
		g.Players[seat] = &Player{UserID: userIDs[seat], Seat: seat, Hand: hand}
		if ContainsCard(hand, OpeningCard) {
			g.OpeningSeat = seat
		}
	}
	if g.OpeningSeat < 0 {
		return nil, fmt.Errorf("new game: nobody holds the opening card %s", OpeningCard)
	}
	g.Turn = g.OpeningSeat
	return g, nil
}

// Play validates and applies a play by seat. On error the game is unchanged.
func (g *Game) Play(seat int, cards []Card) (Transition, error) {
	combo, err := ValidatePlay(g, seat, cards)
	if err != nil {
		return Transition{}, err
	}

	tr := Transition{Seat: seat, Combination: &combo, From: g.State, TrickWinner: -1, Winner: -1}

	player := g.Players[seat]
	player.Hand = RemoveCards(player.Hand, combo.Cards)
	g.Opened = true
	g.History = append(g.History, Move{Seat: seat, Cards: combo.Cards})
	g.Trick = g.Trick.WithPlay(seat, combo)

	switch {
	case !player.InRound():
		g.State = StateGameOver
		g.Winner = seat
		g.Turn = -1
		tr.Winner = seat
	case g.Rules.CloseUnbeatableSingle && combo.Category == CategorySingle && !g.opponentHolds(seat, combo.Key):
		g.closeTrick(seat)
		tr.TrickClosed = true
		tr.TrickWinner = seat
	default:
		g.State = StateTrickActive
		g.Turn = NextSeat(seat, g.activeSeats())
	}

	tr.To = g.State
	tr.NextSeat = g.Turn
	return tr, nil
}

// Pass validates and applies a pass by seat. On error the game is unchanged.
func (g *Game) Pass(seat int) (Transition, error) {
	if err := ValidatePass(g, seat); err != nil {
		return Transition{}, err
	}

	tr := Transition{Seat: seat, From: g.State, TrickWinner: -1, Winner: -1}

	g.History = append(g.History, Move{Seat: seat, Pass: true})
	g.Trick = g.Trick.WithPass()

	if g.Trick.Resolved(g.ActiveCount()) {
		g.State = StateRoundComplete
		winner := g.Trick.LastSeat
		g.closeTrick(winner)
		tr.TrickClosed = true
		tr.TrickWinner = winner
	} else {
		g.Turn = NextSeat(seat, g.activeSeats())
	}

	tr.To = g.State
	tr.NextSeat = g.Turn
	return tr, nil
}

// Apply replays a recorded move.
func (g *Game) Apply(m Move) (Transition, error) {
	if m.Pass {
		return g.Pass(m.Seat)
	}
	return g.Play(m.Seat, m.Cards)
}

// ActiveCount returns how many players still hold cards.
func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if p != nil && p.InRound() {
			n++
		}
	}
	return n
}

// Hand returns a copy of the hand at seat.
func (g *Game) Hand(seat int) ([]Card, error) {
	if seat < 0 || seat >= NumPlayers || g.Players[seat] == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeat, seat)
	}
	out := make([]Card, len(g.Players[seat].Hand))
	copy(out, g.Players[seat].Hand)
	return out, nil
}

// closeTrick clears the table and hands the lead to the trick winner, or to
// the next active seat if the winner has gone out.
func (g *Game) closeTrick(winner int) {
	g.Trick = NewTrick()
	g.State = StateAwaitingLead
	active := g.activeSeats()
	if active[winner] {
		g.Turn = winner
	} else {
		g.Turn = NextSeat(winner, active)
	}
}

func (g *Game) activeSeats() [NumPlayers]bool {
	var active [NumPlayers]bool
	for i, p := range g.Players {
		active[i] = p != nil && p.InRound()
	}
	return active
}

// opponentHolds reports whether any other active player holds a card above c.
func (g *Game) opponentHolds(seat int, c Card) bool {
	for i, p := range g.Players {
		if i == seat || p == nil {
			continue
		}
		for _, h := range p.Hand {
			if c.Less(h) {
				return true
			}
		}
	}
	return false
}
