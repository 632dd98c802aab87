package domain

import (
	"errors"
	"math/rand"
	"testing"
)

var testUsers = [NumPlayers]string{"u0", "u1", "u2", "u3"}

// newOrderedGame deals the sorted deck in blocks of 13: seat 0 holds the
// threes, fours, fives and 6♦; seat 3 holds every two.
func newOrderedGame(t *testing.T, rules Rules) *Game {
	t.Helper()
	deck := NewDeck()
	var hands [NumPlayers][]Card
	for seat := range hands {
		hands[seat] = deck[seat*HandSize : (seat+1)*HandSize]
	}
	g, err := NewGame(testUsers, hands, rules)
	if err != nil {
		t.Fatalf("NewGame() error: %v", err)
	}
	return g
}

func newSmallGame(t *testing.T, rules Rules, hands ...string) *Game {
	t.Helper()
	var dealt [NumPlayers][]Card
	for seat, h := range hands {
		dealt[seat] = cards(t, h)
	}
	g, err := NewGame(testUsers, dealt, rules)
	if err != nil {
		t.Fatalf("NewGame() error: %v", err)
	}
	return g
}

func mustPlay(t *testing.T, g *Game, seat int, tokens string) Transition {
	t.Helper()
	tr, err := g.Play(seat, cards(t, tokens))
	if err != nil {
		t.Fatalf("seat %d Play(%s) error: %v", seat, tokens, err)
	}
	return tr
}

func mustPass(t *testing.T, g *Game, seat int) Transition {
	t.Helper()
	tr, err := g.Pass(seat)
	if err != nil {
		t.Fatalf("seat %d Pass() error: %v", seat, err)
	}
	return tr
}

func TestNewGameFindsOpeningSeat(t *testing.T) {
	g := newSmallGame(t, DefaultRules(), "4D", "5D", "3D 9S", "6D")
	if g.OpeningSeat != 2 || g.Turn != 2 {
		t.Fatalf("opening seat = %d, turn = %d, want 2", g.OpeningSeat, g.Turn)
	}
	if g.State != StateAwaitingLead {
		t.Fatalf("state = %s, want %s", g.State, StateAwaitingLead)
	}
}

func TestNewGameRejectsBadDeals(t *testing.T) {
	var noOpener [NumPlayers][]Card
	noOpener[0] = []Card{{RankFour, SuitDiamonds}}
	if _, err := NewGame(testUsers, noOpener, DefaultRules()); err == nil {
		t.Fatal("expected error when nobody holds the opening card")
	}

	var dup [NumPlayers][]Card
	dup[0] = []Card{OpeningCard}
	dup[1] = []Card{OpeningCard}
	if _, err := NewGame(testUsers, dup, DefaultRules()); err == nil {
		t.Fatal("expected error for a card dealt twice")
	}

	if _, err := NewGame(testUsers, noOpener, Rules{StraightPolicy: "sideways"}); err == nil {
		t.Fatal("expected error for unknown straight policy")
	}
}

func TestOpeningLeadAndPassOut(t *testing.T) {
	g := newOrderedGame(t, DefaultRules())

	if _, err := g.Play(1, []Card{OpeningCard}); !errors.Is(err, ErrMustLeadOpeningCard) {
		t.Fatalf("opening card from seat 1: error = %v, want %v", err, ErrMustLeadOpeningCard)
	}
	if _, err := g.Pass(0); !errors.Is(err, ErrMustLeadOpeningCard) {
		t.Fatalf("opening pass: error = %v, want %v", err, ErrMustLeadOpeningCard)
	}
	if _, err := g.Play(0, cards(t, "4D")); !errors.Is(err, ErrMustLeadOpeningCard) {
		t.Fatalf("lead without 3♦: error = %v, want %v", err, ErrMustLeadOpeningCard)
	}
	if _, err := g.Play(0, cards(t, "3D 3C")); !errors.Is(err, ErrMustLeadOpeningCard) {
		t.Fatalf("pair opening: error = %v, want %v", err, ErrMustLeadOpeningCard)
	}

	tr := mustPlay(t, g, 0, "3D")
	if tr.From != StateAwaitingLead || tr.To != StateTrickActive || tr.NextSeat != 1 {
		t.Fatalf("lead transition = %+v", tr)
	}

	for seat := 1; seat <= 2; seat++ {
		tr = mustPass(t, g, seat)
		if tr.TrickClosed || tr.To != StateTrickActive {
			t.Fatalf("pass %d closed the trick early: %+v", seat, tr)
		}
	}
	tr = mustPass(t, g, 3)
	if !tr.TrickClosed || tr.TrickWinner != 0 || tr.From != StateTrickActive || tr.To != StateAwaitingLead || tr.NextSeat != 0 {
		t.Fatalf("final pass transition = %+v", tr)
	}
	if g.State == StateRoundComplete {
		t.Fatal("round complete leaked out of the closing pass")
	}
	if g.Trick.HasLead() || g.Trick.Passes != 0 {
		t.Fatalf("trick not cleared: %+v", g.Trick)
	}
	if _, err := g.Pass(0); !errors.Is(err, ErrCannotPassLeadingTrick) {
		t.Fatalf("leader pass: error = %v, want %v", err, ErrCannotPassLeadingTrick)
	}
}

func TestCombinationOpening(t *testing.T) {
	g := newOrderedGame(t, Rules{StraightPolicy: StraightNoWrap, AllowCombinationOpening: true})
	if _, err := g.Play(0, cards(t, "3C 3H 3S")); !errors.Is(err, ErrMustLeadOpeningCard) {
		t.Fatalf("triple without 3♦: error = %v, want %v", err, ErrMustLeadOpeningCard)
	}
	mustPlay(t, g, 0, "3D 3C 3H")

	if _, err := g.Play(1, cards(t, "6C 6H")); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("pair on triple: error = %v, want %v", err, ErrArityMismatch)
	}
	mustPlay(t, g, 1, "6C 6H 6S")
}

func TestPlayRejections(t *testing.T) {
	g := newOrderedGame(t, DefaultRules())
	mustPlay(t, g, 0, "3D")

	tests := []struct {
		name  string
		seat  int
		cards string
		want  error
	}{
		{name: "out of turn", seat: 2, cards: "9H", want: ErrNotYourTurn},
		{name: "not owned", seat: 1, cards: "2S", want: ErrNotOwned},
		{name: "listed twice", seat: 1, cards: "6C 6C", want: ErrNotOwned},
		{name: "arity mismatch", seat: 1, cards: "7D 7C", want: ErrArityMismatch},
		{name: "unknown seat", seat: 7, cards: "6C", want: ErrUnknownSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Play(tt.seat, cards(t, tt.cards)); !errors.Is(err, tt.want) {
				t.Fatalf("Play() error = %v, want %v", err, tt.want)
			}
		})
	}

	mustPlay(t, g, 1, "6C")
	mustPlay(t, g, 2, "9H")
	mustPass(t, g, 3)
	if _, err := g.Play(0, cards(t, "5S")); !errors.Is(err, ErrDoesNotBeat) {
		t.Fatalf("5♠ on 9♥: error = %v, want %v", err, ErrDoesNotBeat)
	}
}

func TestFailedActionsDoNotMutate(t *testing.T) {
	g := newOrderedGame(t, DefaultRules())
	mustPlay(t, g, 0, "3D")
	mustPlay(t, g, 1, "6C")

	before := make([][]Card, NumPlayers)
	for seat := range before {
		before[seat], _ = g.Hand(seat)
	}
	trick, turn, history := g.Trick, g.Turn, len(g.History)

	attempts := []func() error{
		func() error { _, err := g.Play(2, cards(t, "TD TC")); return err },
		func() error { _, err := g.Play(2, cards(t, "9S 2S")); return err },
		func() error { _, err := g.Play(3, cards(t, "2S")); return err },
		func() error { _, err := g.Play(2, cards(t, "JD QD KD AD 2D")); return err },
		func() error { _, err := g.Pass(0); return err },
	}
	for i, attempt := range attempts {
		if err := attempt(); err == nil {
			t.Fatalf("attempt %d unexpectedly succeeded", i)
		}
	}

	for seat := range before {
		after, _ := g.Hand(seat)
		if len(after) != len(before[seat]) {
			t.Fatalf("seat %d hand changed from %v to %v", seat, before[seat], after)
		}
	}
	if g.Trick.LastSeat != trick.LastSeat || g.Trick.Passes != trick.Passes || g.Turn != turn || len(g.History) != history {
		t.Fatal("failed actions changed the game")
	}
}

func TestGameOver(t *testing.T) {
	g := newSmallGame(t, DefaultRules(), "3D", "4D 5S", "5D 6S", "6D 7S")
	tr := mustPlay(t, g, 0, "3D")
	if tr.To != StateGameOver || tr.Winner != 0 || tr.NextSeat != -1 {
		t.Fatalf("winning transition = %+v", tr)
	}
	if g.Winner != 0 || g.State != StateGameOver {
		t.Fatalf("winner = %d state = %s", g.Winner, g.State)
	}
	if _, err := g.Play(1, cards(t, "4D")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("play after game over: error = %v, want %v", err, ErrGameOver)
	}
	if _, err := g.Pass(1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("pass after game over: error = %v, want %v", err, ErrGameOver)
	}
}

func TestCloseUnbeatableSingle(t *testing.T) {
	rules := DefaultRules()
	rules.CloseUnbeatableSingle = true
	g := newSmallGame(t, rules, "3D 2S 5S", "4D 5D", "6D 7D", "8D 9D")

	if tr := mustPlay(t, g, 0, "3D"); tr.TrickClosed {
		t.Fatal("beatable single closed the trick")
	}
	mustPlay(t, g, 1, "4D")
	mustPass(t, g, 2)
	mustPass(t, g, 3)

	tr := mustPlay(t, g, 0, "2S")
	if !tr.TrickClosed || tr.TrickWinner != 0 || tr.NextSeat != 0 || tr.To != StateAwaitingLead {
		t.Fatalf("unbeatable single transition = %+v", tr)
	}
	if tr := mustPlay(t, g, 0, "5S"); tr.To != StateGameOver {
		t.Fatalf("last card transition = %+v", tr)
	}
}

// A game driven by always making the weakest legal play terminates and can be
// replayed move for move.
func TestGameTerminatesAndReplays(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		hands, err := Deal(ShuffleDeck(NewDeck(), rand.New(rand.NewSource(seed))))
		if err != nil {
			t.Fatalf("Deal() error: %v", err)
		}
		g, err := NewGame(testUsers, hands, DefaultRules())
		if err != nil {
			t.Fatalf("NewGame() error: %v", err)
		}

		actions := 0
		for g.State != StateGameOver {
			if actions > DeckSize*NumPlayers {
				t.Fatalf("seed %d: game did not finish after %d actions", seed, actions)
			}
			seat := g.Turn
			if plays := LegalPlays(g, seat); len(plays) > 0 {
				if _, err := g.Play(seat, plays[0].Cards); err != nil {
					t.Fatalf("seed %d: legal play rejected: %v", seed, err)
				}
			} else if _, err := g.Pass(seat); err != nil {
				t.Fatalf("seed %d: pass rejected: %v", seed, err)
			}
			actions++
		}

		replay, _ := NewGame(testUsers, hands, DefaultRules())
		for _, m := range g.History {
			if _, err := replay.Apply(m); err != nil {
				t.Fatalf("seed %d: replay of %+v failed: %v", seed, m, err)
			}
		}
		if replay.Winner != g.Winner || replay.State != StateGameOver {
			t.Fatalf("seed %d: replay winner = %d, want %d", seed, replay.Winner, g.Winner)
		}
	}
}
