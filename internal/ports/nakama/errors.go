package nakama

import (
	"errors"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
)

var (
	errNotSeated = errors.New("sender has no seat in this match")
	errNotOwner  = errors.New("only the match owner can start the game")
	errInGame    = errors.New("a game is already in progress")
)

// Error codes sent to clients in OpGameError messages.
const (
	ErrCodeInvalidArity           = 1
	ErrCodeInvalidShape           = 2
	ErrCodeNotOwned               = 3
	ErrCodeMustLeadOpeningCard    = 4
	ErrCodeArityMismatch          = 5
	ErrCodeDoesNotBeat            = 6
	ErrCodeCannotPassLeadingTrick = 7
	ErrCodeNotYourTurn            = 8
	ErrCodeGameOver               = 9
	ErrCodeUnknownSeat            = 10
	ErrCodeNoGame                 = 11
	ErrCodeTooFewPlayers          = 12
	ErrCodeNotOwner               = 13
	ErrCodeBadRequest             = 14
	ErrCodeInGame                 = 15
	ErrCodeInternal               = 99
)

type errorCode struct {
	err    error
	code   int
	reason string
}

// domain.ErrInternal comes first since it wraps other sentinels.
var errorCodes = []errorCode{
	{domain.ErrInternal, ErrCodeInternal, "internal"},
	{domain.ErrIncomparableArity, ErrCodeInternal, "internal"},
	{domain.ErrInvalidArity, ErrCodeInvalidArity, "invalid_arity"},
	{domain.ErrInvalidShape, ErrCodeInvalidShape, "invalid_shape"},
	{domain.ErrNotOwned, ErrCodeNotOwned, "not_owned"},
	{domain.ErrMustLeadOpeningCard, ErrCodeMustLeadOpeningCard, "must_lead_opening_card"},
	{domain.ErrArityMismatch, ErrCodeArityMismatch, "arity_mismatch"},
	{domain.ErrDoesNotBeat, ErrCodeDoesNotBeat, "does_not_beat"},
	{domain.ErrCannotPassLeadingTrick, ErrCodeCannotPassLeadingTrick, "cannot_pass_leading_trick"},
	{domain.ErrNotYourTurn, ErrCodeNotYourTurn, "not_your_turn"},
	{domain.ErrGameOver, ErrCodeGameOver, "game_over"},
	{domain.ErrUnknownSeat, ErrCodeUnknownSeat, "unknown_seat"},
	{errNotSeated, ErrCodeUnknownSeat, "unknown_seat"},
	{app.ErrNoGame, ErrCodeNoGame, "no_game"},
	{app.ErrTooFewPlayers, ErrCodeTooFewPlayers, "too_few_players"},
	{errNotOwner, ErrCodeNotOwner, "not_owner"},
	{errInGame, ErrCodeInGame, "game_in_progress"},
	{errBadRequest, ErrCodeBadRequest, "bad_request"},
}

// classifyError maps an error to the code and reason reported to the client.
func classifyError(err error) (int, string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, ec.reason
		}
	}
	return ErrCodeInternal, "internal"
}
