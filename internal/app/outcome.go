package app

import "bigtwo/internal/domain"

// TurnOutcome reports the result of an accepted play or pass.
type TurnOutcome struct {
	// Lead is the combination now topping the trick, nil when the next player
	// leads a fresh trick.
	Lead        *domain.Combination
	State       domain.State
	NextSeat    int // -1 once the game is over
	TrickClosed bool
	GameOver    bool
	Winner      int // -1 unless GameOver
	Events      []Event
}

// PlayerView is what one seat may see: its own hand plus public table state.
type PlayerView struct {
	Seat      int
	Hand      []domain.Card
	State     domain.State
	Turn      int
	Lead      *domain.Combination
	LeadSeat  int
	Passes    int
	CardsLeft [domain.NumPlayers]int
	// MustOpen is set while the opening card has not been played yet.
	MustOpen    bool
	OpeningSeat int
	Winner      int
}

func cardsLeft(game *domain.Game) [domain.NumPlayers]int {
	var out [domain.NumPlayers]int
	for i, p := range game.Players {
		if p != nil {
			out[i] = len(p.Hand)
		}
	}
	return out
}

func copyLead(t domain.Trick) *domain.Combination {
	if t.Lead == nil {
		return nil
	}
	lead := *t.Lead
	lead.Cards = append([]domain.Card(nil), t.Lead.Cards...)
	return &lead
}
