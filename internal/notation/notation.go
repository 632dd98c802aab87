// Package notation converts between card tokens such as "2c", "10h" or "jc"
// and domain cards. It lives outside the rules core, which only ever sees
// parsed cards.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"bigtwo/internal/domain"
)

// ErrBadToken is returned for any token that does not name a card.
var ErrBadToken = errors.New("invalid card token")

var ranksByToken = map[string]domain.Rank{
	"3": domain.RankThree, "4": domain.RankFour, "5": domain.RankFive,
	"6": domain.RankSix, "7": domain.RankSeven, "8": domain.RankEight,
	"9": domain.RankNine, "10": domain.RankTen, "t": domain.RankTen,
	"j": domain.RankJack, "q": domain.RankQueen, "k": domain.RankKing,
	"a": domain.RankAce, "2": domain.RankTwo,
}

var suitsByToken = map[byte]domain.Suit{
	'd': domain.SuitDiamonds, 'c': domain.SuitClubs,
	'h': domain.SuitHearts, 's': domain.SuitSpades,
}

var rankTokens = [domain.NumRanks]string{"3", "4", "5", "6", "7", "8", "9", "10", "j", "q", "k", "a", "2"}

var suitTokens = [domain.NumSuits]string{"d", "c", "h", "s"}

// ParseCard parses a single rank+suit token, case-insensitively.
func ParseCard(token string) (domain.Card, error) {
	tok := strings.ToLower(strings.TrimSpace(token))
	if len(tok) < 2 {
		return domain.Card{}, fmt.Errorf("%w: %q", ErrBadToken, token)
	}

	suit, ok := suitsByToken[tok[len(tok)-1]]
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: %q has no suit", ErrBadToken, token)
	}
	rank, ok := ranksByToken[tok[:len(tok)-1]]
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: %q has no rank", ErrBadToken, token)
	}
	return domain.Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses tokens separated by spaces and/or commas, e.g. "2c, 3h jc".
func ParseCards(input string) ([]domain.Card, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return ParseTokens(fields)
}

// ParseTokens parses an already split token list.
func ParseTokens(tokens []string) ([]domain.Card, error) {
	out := make([]domain.Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FormatCard renders a card as its lower-case token.
func FormatCard(c domain.Card) string {
	if !c.Valid() {
		return "??"
	}
	return rankTokens[c.Rank] + suitTokens[c.Suit]
}

// FormatCards renders cards as tokens in the given order.
func FormatCards(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = FormatCard(c)
	}
	return out
}
