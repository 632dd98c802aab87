package nakama

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"bigtwo/internal/domain"
	"bigtwo/internal/notation"
)

func cardsToWire(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, token := range notation.FormatCards(cards) {
		out = append(out, token)
	}
	return out
}

func cardsFromWire(values []*structpb.Value) ([]domain.Card, error) {
	tokens := make([]string, 0, len(values))
	for i, v := range values {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: card %d is not a string", errBadRequest, i)
		}
		tokens = append(tokens, s.StringValue)
	}
	cards, err := notation.ParseTokens(tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return cards, nil
}

func combinationToWire(c *domain.Combination) interface{} {
	if c == nil {
		return nil
	}
	return map[string]interface{}{
		"category": c.Category.String(),
		"cards":    cardsToWire(c.Cards),
		"key":      notation.FormatCard(c.Key),
	}
}

func intsToWire(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
