package domain

import "fmt"

// Rank is a card face ordered by Big Two strength: Three is the lowest, Two the highest.
type Rank int8

const (
	RankThree Rank = iota
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankTwo
)

// NumRanks is the number of distinct ranks in the deck.
const NumRanks = 13

var rankNames = [NumRanks]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= RankThree && r <= RankTwo
}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int8(r))
	}
	return rankNames[r]
}

// Suit only breaks ties between cards of equal rank.
type Suit int8

const (
	SuitDiamonds Suit = iota
	SuitClubs
	SuitHearts
	SuitSpades
)

// NumSuits is the number of suits in the deck.
const NumSuits = 4

var suitSymbols = [NumSuits]string{"♦", "♣", "♥", "♠"}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= SuitDiamonds && s <= SuitSpades
}

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", int8(s))
	}
	return suitSymbols[s]
}

// Card is an immutable playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// OpeningCard must be part of the first play of every game.
var OpeningCard = Card{Rank: RankThree, Suit: SuitDiamonds}

// Valid reports whether the card belongs to the 52-card deck.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Power is the card's position in the total order, 0 (3♦) through 51 (2♠).
func (c Card) Power() int {
	return int(c.Rank)*NumSuits + int(c.Suit)
}

// Compare orders cards by rank first and suit second.
// It returns -1, 0 or +1.
func (c Card) Compare(other Card) int {
	switch a, b := c.Power(), other.Power(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether c is strictly weaker than other.
func (c Card) Less(other Card) bool {
	return c.Power() < other.Power()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}
