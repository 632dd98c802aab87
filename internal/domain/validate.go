package domain

import "fmt"

// ValidatePlay decides whether seat may play cards right now and returns the
// classified combination. It never mutates g.
func ValidatePlay(g *Game, seat int, cards []Card) (Combination, error) {
	if err := checkActor(g, seat); err != nil {
		return Combination{}, err
	}

	hand := g.Players[seat].Hand
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c]; dup {
			return Combination{}, fmt.Errorf("%w: %s listed twice", ErrNotOwned, c)
		}
		seen[c] = struct{}{}
		if !ContainsCard(hand, c) {
			return Combination{}, fmt.Errorf("%w: %s", ErrNotOwned, c)
		}
	}

	if !g.Opened {
		if !ContainsCard(cards, OpeningCard) {
			return Combination{}, fmt.Errorf("%w: play must include %s", ErrMustLeadOpeningCard, OpeningCard)
		}
		if !g.Rules.AllowCombinationOpening && len(cards) != 1 {
			return Combination{}, fmt.Errorf("%w: play %s as a single", ErrMustLeadOpeningCard, OpeningCard)
		}
	}

	if g.Trick.HasLead() && len(cards) != g.Trick.Arity() {
		return Combination{}, fmt.Errorf("%w: trick needs %d cards, got %d", ErrArityMismatch, g.Trick.Arity(), len(cards))
	}

	combo, err := Classify(cards, g.Rules.StraightPolicy)
	if err != nil {
		return Combination{}, err
	}

	if g.Trick.HasLead() {
		beats, err := Beats(combo, *g.Trick.Lead)
		if err != nil {
			return Combination{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		if !beats {
			return Combination{}, fmt.Errorf("%w: %s does not beat %s", ErrDoesNotBeat, combo, g.Trick.Lead)
		}
	}

	return combo, nil
}

// ValidatePass decides whether seat may pass right now. It never mutates g.
func ValidatePass(g *Game, seat int) error {
	if err := checkActor(g, seat); err != nil {
		return err
	}
	if !g.Opened {
		return fmt.Errorf("%w: the first play cannot be a pass", ErrMustLeadOpeningCard)
	}
	if !g.Trick.HasLead() {
		return ErrCannotPassLeadingTrick
	}
	return nil
}

func checkActor(g *Game, seat int) error {
	if seat < 0 || seat >= NumPlayers || g.Players[seat] == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSeat, seat)
	}
	if g.State == StateGameOver {
		return ErrGameOver
	}
	if !g.Opened && seat != g.OpeningSeat {
		return fmt.Errorf("%w: seat %d holds %s", ErrMustLeadOpeningCard, g.OpeningSeat, OpeningCard)
	}
	if seat != g.Turn {
		return fmt.Errorf("%w: seat %d to act", ErrNotYourTurn, g.Turn)
	}
	return nil
}
