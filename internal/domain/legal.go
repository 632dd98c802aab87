package domain

import "sort"

// LegalPlays lists every combination seat may play right now, grouped by size
// and weakest first within a size. It returns nothing when seat cannot act.
func LegalPlays(g *Game, seat int) []Combination {
	if checkActor(g, seat) != nil {
		return nil
	}

	hand := make([]Card, len(g.Players[seat].Hand))
	copy(hand, g.Players[seat].Hand)
	SortByRank(hand)

	sizes := []int{1, 2, 3, 5}
	if g.Trick.HasLead() {
		sizes = []int{g.Trick.Arity()}
	}

	var plays []Combination
	for _, size := range sizes {
		start := len(plays)
		forEachSubset(hand, size, func(cards []Card) {
			if combo, err := ValidatePlay(g, seat, cards); err == nil {
				plays = append(plays, combo)
			}
		})
		group := plays[start:]
		sort.SliceStable(group, func(i, j int) bool {
			cmp, _ := Compare(group[i], group[j])
			return cmp < 0
		})
	}
	return plays
}

// forEachSubset calls fn with every k-card subset of cards. The slice passed to
// fn is reused between calls.
func forEachSubset(cards []Card, k int, fn func([]Card)) {
	if k <= 0 || k > len(cards) {
		return
	}
	buf := make([]Card, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(buf)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			buf[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}
