package domain

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		policy   StraightPolicy
		expected Category
		key      string
	}{
		{name: "Single", cards: "7H", expected: CategorySingle, key: "7H"},
		{name: "Pair", cards: "KS KD", expected: CategoryPair, key: "KS"},
		{name: "Triple", cards: "9C 9D 9H", expected: CategoryTriple, key: "9H"},
		{name: "Straight", cards: "3D 4S 5C 6H 7S", expected: CategoryStraight, key: "7S"},
		{name: "Straight ten to ace", cards: "TD JS QC KH AS", expected: CategoryStraight, key: "AS"},
		{name: "Straight jack to two", cards: "JD QS KC AH 2C", expected: CategoryStraight, key: "2C"},
		{name: "Flush", cards: "3H 7H 9H JH 2H", expected: CategoryFlush, key: "2H"},
		{name: "FullHouse", cards: "3S 3D 3C 7S 7D", expected: CategoryFullHouse, key: "3S"},
		{name: "FullHouse pair below", cards: "4S 4D KC KS KD", expected: CategoryFullHouse, key: "KS"},
		{name: "FourPlusKicker", cards: "8D 8C 8H 8S 3D", expected: CategoryFourPlusKicker, key: "8S"},
		{name: "StraightFlush", cards: "3S 4S 5S 6S 7S", expected: CategoryStraightFlush, key: "7S"},
		{name: "Wrap low ace run", cards: "AD 2S 3C 4H 5D", policy: StraightWrapLow, expected: CategoryStraight, key: "2S"},
		{name: "Wrap low two run", cards: "2D 3S 4C 5H 6D", policy: StraightWrapLow, expected: CategoryStraight, key: "2D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := tt.policy
			if policy == "" {
				policy = StraightNoWrap
			}
			combo, err := Classify(cards(t, tt.cards), policy)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if combo.Category != tt.expected {
				t.Errorf("category = %v, want %v", combo.Category, tt.expected)
			}
			if want := cards(t, tt.key)[0]; combo.Key != want {
				t.Errorf("key = %v, want %v", combo.Key, want)
			}
			if combo.Arity() != tt.expected.Arity() {
				t.Errorf("arity = %d, want %d", combo.Arity(), tt.expected.Arity())
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	tests := []struct {
		name   string
		cards  []Card
		policy StraightPolicy
		want   error
	}{
		{name: "Empty", cards: nil, want: ErrInvalidArity},
		{name: "Four cards", cards: []Card{{RankThree, SuitDiamonds}, {RankThree, SuitClubs}, {RankThree, SuitHearts}, {RankThree, SuitSpades}}, want: ErrInvalidArity},
		{name: "Six cards", cards: NewDeck()[:6], want: ErrInvalidArity},
		{name: "Mixed pair", cards: []Card{{RankThree, SuitDiamonds}, {RankFour, SuitDiamonds}}, want: ErrInvalidShape},
		{name: "Mixed triple", cards: []Card{{RankNine, SuitDiamonds}, {RankNine, SuitClubs}, {RankTen, SuitDiamonds}}, want: ErrInvalidShape},
		{name: "Duplicate card", cards: []Card{{RankNine, SuitDiamonds}, {RankNine, SuitDiamonds}}, want: ErrInvalidShape},
		{name: "Invalid card", cards: []Card{{Rank: 20, Suit: SuitDiamonds}}, want: ErrInvalidShape},
		{name: "Two pair", cards: []Card{{RankThree, SuitDiamonds}, {RankThree, SuitClubs}, {RankFive, SuitDiamonds}, {RankFive, SuitClubs}, {RankNine, SuitHearts}}, want: ErrInvalidShape},
		{name: "Wrap past two", cards: []Card{{RankQueen, SuitDiamonds}, {RankKing, SuitClubs}, {RankAce, SuitDiamonds}, {RankTwo, SuitClubs}, {RankThree, SuitHearts}}, policy: StraightWrapLow, want: ErrInvalidShape},
		{name: "Ace low without policy", cards: []Card{{RankAce, SuitDiamonds}, {RankTwo, SuitClubs}, {RankThree, SuitDiamonds}, {RankFour, SuitClubs}, {RankFive, SuitHearts}}, policy: StraightNoWrap, want: ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := tt.policy
			if policy == "" {
				policy = StraightNoWrap
			}
			_, err := Classify(tt.cards, policy)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Classify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// Every five-card subset of the deck lands in at most one category.
func TestClassifyFiveCardCategoriesAreExclusive(t *testing.T) {
	deck := NewDeck()
	counts := make(map[Category]int)
	invalid := 0
	forEachSubset(deck, 5, func(hand []Card) {
		combo, err := Classify(hand, StraightNoWrap)
		if err != nil {
			if !errors.Is(err, ErrInvalidShape) {
				t.Fatalf("Classify(%v) unexpected error: %v", hand, err)
			}
			invalid++
			return
		}

		matches := 0
		if isStraight(combo.Cards, StraightNoWrap) && !sameSuit(combo.Cards) {
			matches++
		}
		if sameSuit(combo.Cards) && !isStraight(combo.Cards, StraightNoWrap) {
			matches++
		}
		groups := groupByRank(combo.Cards)
		if len(groups) == 2 && len(groups[0]) == 3 {
			matches++
		}
		if len(groups) == 2 && len(groups[0]) == 4 {
			matches++
		}
		if isStraight(combo.Cards, StraightNoWrap) && sameSuit(combo.Cards) {
			matches++
		}
		if matches != 1 {
			t.Fatalf("%v matched %d categories", hand, matches)
		}
		counts[combo.Category]++
	})

	want := map[Category]int{
		// Nine starting ranks (3 through J) in four suits.
		CategoryStraightFlush:  36,
		CategoryStraight:       9*1024 - 36,
		CategoryFlush:          4*1287 - 36,
		CategoryFullHouse:      13 * 4 * 12 * 6,
		CategoryFourPlusKicker: 13 * 48,
	}
	for category, n := range want {
		if counts[category] != n {
			t.Errorf("%v count = %d, want %d", category, counts[category], n)
		}
	}
	if total := invalid + counts[CategoryStraightFlush] + counts[CategoryStraight] + counts[CategoryFlush] + counts[CategoryFullHouse] + counts[CategoryFourPlusKicker]; total != 2598960 {
		t.Errorf("classified %d hands, want 2598960", total)
	}
}
