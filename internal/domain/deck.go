package domain

import (
	"fmt"
	"math/rand"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = NumRanks * NumSuits

// NewDeck returns the 52-card deck sorted by ascending power.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := RankThree; r <= RankTwo; r++ {
		for s := SuitDiamonds; s <= SuitSpades; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck using rng.
// The same seed always yields the same permutation.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal hands out a full deck one card at a time, clockwise from seat 0.
// Each hand is returned sorted by rank.
func Deal(deck []Card) ([NumPlayers][]Card, error) {
	var hands [NumPlayers][]Card
	if len(deck) != DeckSize {
		return hands, fmt.Errorf("deal: deck has %d cards, want %d", len(deck), DeckSize)
	}
	if dup, ok := firstDuplicate(deck); ok {
		return hands, fmt.Errorf("deal: duplicate card %s", dup)
	}

	for i := range hands {
		hands[i] = make([]Card, 0, HandSize)
	}
	for i, c := range deck {
		if !c.Valid() {
			return hands, fmt.Errorf("deal: invalid card %v", c)
		}
		seat := i % NumPlayers
		hands[seat] = append(hands[seat], c)
	}
	for i := range hands {
		SortByRank(hands[i])
	}
	return hands, nil
}

func firstDuplicate(cards []Card) (Card, bool) {
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return c, true
		}
		seen[c] = struct{}{}
	}
	return Card{}, false
}
