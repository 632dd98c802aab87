package domain

import "fmt"

// Compare orders two combinations of the same arity and returns -1, 0 or +1.
// Five-card combinations are ordered by category first, so a flush beats any
// straight; otherwise the deciding card decides, rank first and suit second.
func Compare(a, b Combination) (int, error) {
	if a.Arity() != b.Arity() || a.Arity() == 0 {
		return 0, fmt.Errorf("%w: %d vs %d cards", ErrIncomparableArity, a.Arity(), b.Arity())
	}

	if a.Category != b.Category {
		switch {
		case a.Category < b.Category:
			return -1, nil
		default:
			return 1, nil
		}
	}

	return a.Key.Compare(b.Key), nil
}

// Beats reports whether candidate strictly beats lead.
func Beats(candidate, lead Combination) (bool, error) {
	cmp, err := Compare(candidate, lead)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}
