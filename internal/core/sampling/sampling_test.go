package sampling_test

import (
	"math/rand"
	"slices"
	"testing"

	"xwords/internal/core/sampling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestSubsample_Bounds(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	rng := rand.New(rand.NewSource(42))

	for n := 0; n <= len(items); n++ {
		out, err := sampling.Subsample(rng, items, intPtr(n))
		require.NoError(t, err)
		require.Len(t, out, n)

		// every element comes from items, without duplicates, in original order
		last := -1
		for _, s := range out {
			i := slices.Index(items, s)
			require.GreaterOrEqual(t, i, 0)
			require.Greater(t, i, last)
			last = i
		}
	}
}

func TestSubsample_Unchanged(t *testing.T) {
	items := []int{3, 1, 2}
	rng := rand.New(rand.NewSource(1))

	out, err := sampling.Subsample(rng, items, nil)
	require.NoError(t, err)
	assert.Equal(t, items, out)

	out, err = sampling.Subsample(rng, items, intPtr(10))
	require.NoError(t, err)
	assert.Equal(t, items, out)
}

func TestSubsample_Deterministic(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	a, err := sampling.Subsample(rand.New(rand.NewSource(9)), items, intPtr(10))
	require.NoError(t, err)
	b, err := sampling.Subsample(rand.New(rand.NewSource(9)), items, intPtr(10))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSubsample_Negative(t *testing.T) {
	_, err := sampling.Subsample(rand.New(rand.NewSource(1)), []int{1, 2}, intPtr(-1))
	assert.ErrorIs(t, err, sampling.ErrInvalidSampleSize)
}

func TestIndices(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	idx, err := sampling.Indices(rng, 10, 4)
	require.NoError(t, err)
	assert.Len(t, idx, 4)
	assert.True(t, slices.IsSorted(idx))
	assert.Len(t, slices.Compact(slices.Clone(idx)), 4)

	_, err = sampling.Indices(rng, 3, 4)
	assert.ErrorIs(t, err, sampling.ErrInvalidSampleSize)
}

func TestSplit(t *testing.T) {
	items := make([]int, 10)
	for i := range items {
		items[i] = i
	}

	train, test, err := sampling.Split(rand.New(rand.NewSource(3)), items, 0.7)
	require.NoError(t, err)
	assert.Len(t, train, 7)
	assert.Len(t, test, 3)
	assert.True(t, slices.IsSorted(train))
	assert.True(t, slices.IsSorted(test))
	assert.ElementsMatch(t, items, append(slices.Clone(train), test...))

	train, test, err = sampling.Split(rand.New(rand.NewSource(3)), items, 1.0)
	require.NoError(t, err)
	assert.Equal(t, items, train)
	assert.Empty(t, test)

	_, _, err = sampling.Split(rand.New(rand.NewSource(3)), items, 1.5)
	assert.ErrorIs(t, err, sampling.ErrInvalidSampleSize)
}
