package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"bigtwo/internal/domain"
)

// Service is the game controller: it deals games and runs player actions
// through the rules core, translating transitions into events.
type Service struct {
	rules   domain.Rules
	handles *HandleIssuer
	newSeed func() int64
}

var (
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrNoGame        = errors.New("no game in progress")
)

// NewService constructs a Service. handles may be nil when replay tokens are
// not needed.
func NewService(rules domain.Rules, handles *HandleIssuer) *Service {
	return &Service{
		rules:   rules,
		handles: handles,
		newSeed: func() int64 { return time.Now().UnixNano() },
	}
}

// Rules returns the rule set new games are dealt with.
func (s *Service) Rules() domain.Rules {
	return s.rules
}

// StartGame shuffles and deals a new game for the players in seat order. A nil
// seed picks a time-based one; the seed actually used is in the handle.
func (s *Service) StartGame(userIDs [domain.NumPlayers]string, seed *int64) (*domain.Game, GameHandle, []Event, error) {
	for _, uid := range userIDs {
		if uid == "" {
			return nil, GameHandle{}, nil, ErrTooFewPlayers
		}
	}

	h := GameHandle{ID: uuid.NewString(), Players: userIDs, Rules: s.rules}
	if seed != nil {
		h.Seed = *seed
	} else {
		h.Seed = s.newSeed()
	}

	game, err := s.Rebuild(&h)
	if err != nil {
		return nil, GameHandle{}, nil, err
	}
	if s.handles != nil {
		if h.Token, err = s.handles.Issue(h); err != nil {
			return nil, GameHandle{}, nil, fmt.Errorf("issue handle: %w", err)
		}
	}

	events := make([]Event, 0, domain.NumPlayers+1)
	for _, pl := range game.Players {
		hand := append([]domain.Card(nil), pl.Hand...)
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: pl.Seat, Hand: hand},
			Recipients: []string{pl.UserID},
		})
	}
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:      h.ID,
			OpeningSeat: h.OpeningSeat,
			OpeningCard: h.OpeningCard,
			Token:       h.Token,
		},
	})

	return game, h, events, nil
}

// Rebuild deals the game described by h from its seed and fills in the
// opening seat and card.
func (s *Service) Rebuild(h *GameHandle) (*domain.Game, error) {
	rng := rand.New(rand.NewSource(h.Seed))
	hands, err := domain.Deal(domain.ShuffleDeck(domain.NewDeck(), rng))
	if err != nil {
		return nil, err
	}
	game, err := domain.NewGame(h.Players, hands, h.Rules)
	if err != nil {
		return nil, err
	}
	h.OpeningSeat = game.OpeningSeat
	h.OpeningCard = domain.OpeningCard
	return game, nil
}

// Replay verifies a handle token, re-deals its game and applies moves in order.
func (s *Service) Replay(token string, moves []domain.Move) (*domain.Game, error) {
	h, err := s.handles.Parse(token)
	if err != nil {
		return nil, err
	}
	game, err := s.Rebuild(&h)
	if err != nil {
		return nil, err
	}
	for i, m := range moves {
		if _, err := game.Apply(m); err != nil {
			return nil, fmt.Errorf("replay move %d: %w", i, err)
		}
	}
	return game, nil
}

// PlayCards processes a play action. On error the game is unchanged.
func (s *Service) PlayCards(game *domain.Game, seat int, cards []domain.Card) (TurnOutcome, error) {
	if game == nil {
		return TurnOutcome{}, ErrNoGame
	}
	tr, err := game.Play(seat, cards)
	if err != nil {
		return TurnOutcome{}, err
	}

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			Seat:        seat,
			Combination: *tr.Combination,
			CardsLeft:   len(game.Players[seat].Hand),
			NextSeat:    tr.NextSeat,
		},
	}}
	return s.outcome(game, tr, events), nil
}

// PassTurn processes a pass action. On error the game is unchanged.
func (s *Service) PassTurn(game *domain.Game, seat int) (TurnOutcome, error) {
	if game == nil {
		return TurnOutcome{}, ErrNoGame
	}
	passes := game.Trick.Passes + 1
	tr, err := game.Pass(seat)
	if err != nil {
		return TurnOutcome{}, err
	}

	events := []Event{{
		Kind:    EventTurnPassed,
		Payload: TurnPassedPayload{Seat: seat, Passes: passes, NextSeat: tr.NextSeat},
	}}
	return s.outcome(game, tr, events), nil
}

// View returns seat's hand and the public table state. It has no side effects.
func (s *Service) View(game *domain.Game, seat int) (PlayerView, error) {
	if game == nil {
		return PlayerView{}, ErrNoGame
	}
	hand, err := game.Hand(seat)
	if err != nil {
		return PlayerView{}, err
	}
	return PlayerView{
		Seat:        seat,
		Hand:        hand,
		State:       game.State,
		Turn:        game.Turn,
		Lead:        copyLead(game.Trick),
		LeadSeat:    game.Trick.LastSeat,
		Passes:      game.Trick.Passes,
		CardsLeft:   cardsLeft(game),
		MustOpen:    !game.Opened,
		OpeningSeat: game.OpeningSeat,
		Winner:      game.Winner,
	}, nil
}

func (s *Service) outcome(game *domain.Game, tr domain.Transition, events []Event) TurnOutcome {
	out := TurnOutcome{
		Lead:        copyLead(game.Trick),
		State:       game.State,
		NextSeat:    tr.NextSeat,
		TrickClosed: tr.TrickClosed,
		GameOver:    tr.To == domain.StateGameOver,
		Winner:      tr.Winner,
	}

	if tr.TrickClosed {
		events = append(events, Event{
			Kind:    EventTrickClosed,
			Payload: TrickClosedPayload{WinnerSeat: tr.TrickWinner, NextSeat: tr.NextSeat},
		})
	}
	if out.GameOver {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinnerSeat:   tr.Winner,
				WinnerUserID: game.Players[tr.Winner].UserID,
				CardsLeft:    cardsLeft(game),
			},
		})
	}
	out.Events = events
	return out
}
