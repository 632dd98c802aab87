package domain

import (
	"fmt"
	"sort"
)

// Category is the kind of a classified play. Five-card categories are declared
// in ascending strength.
type Category int

const (
	CategoryInvalid Category = iota
	CategorySingle
	CategoryPair
	CategoryTriple
	CategoryStraight
	CategoryFlush
	CategoryFullHouse
	CategoryFourPlusKicker
	CategoryStraightFlush
)

var categoryNames = map[Category]string{
	CategoryInvalid:        "invalid",
	CategorySingle:         "single",
	CategoryPair:           "pair",
	CategoryTriple:         "triple",
	CategoryStraight:       "straight",
	CategoryFlush:          "flush",
	CategoryFullHouse:      "full_house",
	CategoryFourPlusKicker: "four_plus_kicker",
	CategoryStraightFlush:  "straight_flush",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Arity is the number of cards every combination of this category holds.
func (c Category) Arity() int {
	switch c {
	case CategorySingle:
		return 1
	case CategoryPair:
		return 2
	case CategoryTriple:
		return 3
	case CategoryStraight, CategoryFlush, CategoryFullHouse, CategoryFourPlusKicker, CategoryStraightFlush:
		return 5
	default:
		return 0
	}
}

// Combination is a classified play. Only Classify builds one.
type Combination struct {
	Category Category
	// Cards are sorted by ascending power.
	Cards []Card
	// Key is the deciding card: the highest card for singles, pairs, triples
	// and the straight/flush family, the highest card of the three-of-a-kind
	// for a full house and of the four-of-a-kind for four plus kicker.
	Key Card
}

// Arity returns how many cards the combination holds.
func (c Combination) Arity() int {
	return len(c.Cards)
}

func (c Combination) String() string {
	return fmt.Sprintf("%s%v", c.Category, c.Cards)
}

// Classify maps a set of 1, 2, 3 or 5 cards to its combination.
func Classify(cards []Card, policy StraightPolicy) (Combination, error) {
	switch len(cards) {
	case 1, 2, 3, 5:
	default:
		return Combination{}, fmt.Errorf("%w: got %d cards", ErrInvalidArity, len(cards))
	}

	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	SortByRank(sorted)

	for i, c := range sorted {
		if !c.Valid() {
			return Combination{}, fmt.Errorf("%w: invalid card %v", ErrInvalidShape, c)
		}
		if i > 0 && sorted[i-1] == c {
			return Combination{}, fmt.Errorf("%w: %s appears twice", ErrInvalidShape, c)
		}
	}

	if len(sorted) == 5 {
		return classifyFive(sorted, policy)
	}

	if !sameRank(sorted) {
		return Combination{}, fmt.Errorf("%w: %d-card plays must share one rank", ErrInvalidShape, len(sorted))
	}
	category := CategorySingle
	switch len(sorted) {
	case 2:
		category = CategoryPair
	case 3:
		category = CategoryTriple
	}
	return Combination{Category: category, Cards: sorted, Key: sorted[len(sorted)-1]}, nil
}

func classifyFive(sorted []Card, policy StraightPolicy) (Combination, error) {
	straight := isStraight(sorted, policy)
	flush := sameSuit(sorted)
	highest := sorted[len(sorted)-1]

	switch {
	case straight && flush:
		return Combination{Category: CategoryStraightFlush, Cards: sorted, Key: highest}, nil
	case straight:
		return Combination{Category: CategoryStraight, Cards: sorted, Key: highest}, nil
	case flush:
		return Combination{Category: CategoryFlush, Cards: sorted, Key: highest}, nil
	}

	groups := groupByRank(sorted)
	if len(groups) == 2 {
		major := groups[0]
		switch len(major) {
		case 3:
			return Combination{Category: CategoryFullHouse, Cards: sorted, Key: major[len(major)-1]}, nil
		case 4:
			return Combination{Category: CategoryFourPlusKicker, Cards: sorted, Key: major[len(major)-1]}, nil
		}
	}

	return Combination{}, fmt.Errorf("%w: five cards must form a straight, flush, full house, four plus kicker or straight flush", ErrInvalidShape)
}

// wrapLowRuns are the extra straights allowed by StraightWrapLow.
var wrapLowRuns = [][5]Rank{
	{RankThree, RankFour, RankFive, RankAce, RankTwo},
	{RankThree, RankFour, RankFive, RankSix, RankTwo},
}

// isStraight expects cards sorted by rank.
func isStraight(sorted []Card, policy StraightPolicy) bool {
	if len(sorted) != 5 {
		return false
	}

	consecutive := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank != sorted[i-1].Rank+1 {
			consecutive = false
			break
		}
	}
	if consecutive || policy != StraightWrapLow {
		return consecutive
	}

	for _, run := range wrapLowRuns {
		match := true
		for i, r := range run {
			if sorted[i].Rank != r {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func sameRank(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}

func sameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// groupByRank splits sorted cards into same-rank groups, largest group first.
func groupByRank(sorted []Card) [][]Card {
	var groups [][]Card
	for i, c := range sorted {
		if i == 0 || c.Rank != sorted[i-1].Rank {
			groups = append(groups, []Card{c})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], c)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})
	return groups
}
