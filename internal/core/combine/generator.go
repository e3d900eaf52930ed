package combine

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
)

// ProductSize is the number of flat combinations of placeholders: the product
// of the value list sizes, 1 when there are no placeholders.
func ProductSize(placeholders []Placeholder) (int, error) {
	size := 1
	for _, p := range placeholders {
		n := len(p.Values)
		if n == 0 {
			return 0, nil
		}
		if size > math.MaxInt/n {
			return 0, fmt.Errorf("%w: product of value list sizes overflows", ErrTooManyCombinations)
		}
		size *= n
	}
	return size, nil
}

// Product yields every combination of values in lexicographic order: the first
// placeholder varies slowest. With no placeholders it yields one empty
// combination; if any list is empty it yields nothing. Each yielded slice is
// freshly allocated.
func Product(placeholders []Placeholder) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for _, p := range placeholders {
			if len(p.Values) == 0 {
				return
			}
		}

		idx := make([]int, len(placeholders))
		for {
			combo := make([]string, len(placeholders))
			for i, p := range placeholders {
				combo[i] = p.Values[idx[i]]
			}
			if !yield(combo) {
				return
			}

			pos := len(idx) - 1
			for ; pos >= 0; pos-- {
				idx[pos]++
				if idx[pos] < len(placeholders[pos].Values) {
					break
				}
				idx[pos] = 0
			}
			if pos < 0 {
				return
			}
		}
	}
}

// Draw picks one value per placeholder, each independently and uniformly.
func Draw(rng *rand.Rand, placeholders []Placeholder) ([]string, error) {
	combo := make([]string, len(placeholders))
	for i, p := range placeholders {
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("%w: '%s'", ErrEmptyValueList, p.Token)
		}
		combo[i] = p.Values[rng.Intn(len(p.Values))]
	}
	return combo, nil
}
