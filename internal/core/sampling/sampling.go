package sampling

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

var ErrInvalidSampleSize = errors.New("invalid sample size")

// Indices draws n distinct indices from [0, population) uniformly at random
// and returns them in ascending order.
func Indices(rng *rand.Rand, population, n int) ([]int, error) {
	if n < 0 || n > population {
		return nil, fmt.Errorf("%w: cannot draw %d items from a population of %d", ErrInvalidSampleSize, n, population)
	}

	idx := rng.Perm(population)[:n]
	slices.Sort(idx)
	return idx, nil
}

// Subsample returns a random subsequence of n items, keeping their original
// relative order. A nil n, or one that is not smaller than len(items), returns
// items unchanged.
func Subsample[T any](rng *rand.Rand, items []T, n *int) ([]T, error) {
	if n == nil || *n >= len(items) {
		return items, nil
	}

	idx, err := Indices(rng, len(items), *n)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out, nil
}

// Split partitions items into a training set of int(len*ratio) randomly chosen
// items and a testing set of the rest. Both keep the original relative order.
func Split[T any](rng *rand.Rand, items []T, ratio float64) ([]T, []T, error) {
	if ratio < 0 || ratio > 1 {
		return nil, nil, fmt.Errorf("%w: training ratio %v must be between 0 and 1", ErrInvalidSampleSize, ratio)
	}

	idx, err := Indices(rng, len(items), int(float64(len(items))*ratio))
	if err != nil {
		return nil, nil, err
	}

	train := make([]T, 0, len(idx))
	test := make([]T, 0, len(items)-len(idx))

	next := 0
	for i, item := range items {
		if next < len(idx) && idx[next] == i {
			train = append(train, item)
			next++
		} else {
			test = append(test, item)
		}
	}
	return train, test, nil
}
