package domain

import "errors"

// Rule violations. None of them is fatal to a Game: the acting player may retry.
var (
	ErrInvalidArity           = errors.New("plays must be a single, a pair, a triple or five cards")
	ErrInvalidShape           = errors.New("cards do not form a valid combination")
	ErrNotOwned               = errors.New("card is not in the player's hand")
	ErrMustLeadOpeningCard    = errors.New("the first play must be led with the opening card")
	ErrArityMismatch          = errors.New("play must have the same number of cards as the trick")
	ErrDoesNotBeat            = errors.New("play does not beat the current trick")
	ErrCannotPassLeadingTrick = errors.New("cannot pass when leading a trick")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrIncomparableArity      = errors.New("combinations of different sizes cannot be compared")

	ErrGameOver    = errors.New("game is over")
	ErrUnknownSeat = errors.New("unknown seat")

	// ErrInternal marks a broken invariant rather than a bad move.
	ErrInternal = errors.New("internal rules error")
)
