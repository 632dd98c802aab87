package app

import "bigtwo/internal/domain"

// EventKind identifies emitted game events for dispatch by the outer layer.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventHandDealt   EventKind = "hand_dealt"
	EventCardPlayed  EventKind = "card_played"
	EventTurnPassed  EventKind = "turn_passed"
	EventTrickClosed EventKind = "trick_closed"
	EventGameEnded   EventKind = "game_ended"
)

// Event is a state-change notification with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID      string
	OpeningSeat int
	OpeningCard domain.Card
	// Token is the signed game handle, empty when handles are disabled.
	Token string
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Card
}

type CardPlayedPayload struct {
	Seat        int
	Combination domain.Combination
	CardsLeft   int
	NextSeat    int
}

type TurnPassedPayload struct {
	Seat     int
	Passes   int
	NextSeat int
}

type TrickClosedPayload struct {
	WinnerSeat int
	NextSeat   int
}

type GameEndedPayload struct {
	WinnerSeat   int
	WinnerUserID string
	CardsLeft    [domain.NumPlayers]int
}
