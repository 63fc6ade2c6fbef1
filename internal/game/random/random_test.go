package random_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/defuse/internal/game/random"
)

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := random.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := random.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := random.NewSeededSource(42)
	b := random.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestSeededSource_PanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { random.NewSeededSource(1).Intn(-3) })
}

func TestInt_Inclusive(t *testing.T) {
	src := random.NewSeededSource(7)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := random.Int(src, 3, 6)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 4, "all of 3..6 should appear")
}

func TestInt_PanicsOnInvertedRange(t *testing.T) {
	assert.Panics(t, func() { random.Int(random.NewSeededSource(1), 5, 4) })
}

func TestPick_Empty(t *testing.T) {
	_, err := random.Pick(random.NewSeededSource(1), []string{})
	assert.True(t, errors.Is(err, random.ErrInvalidArgument))
}

func TestSample_TooMany(t *testing.T) {
	_, err := random.Sample(random.NewSeededSource(1), []string{"red", "blue"}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, random.ErrInvalidArgument))
}

func TestSample_DoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	_, err := random.Sample(random.NewSeededSource(3), in, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, in)
}

func TestWithout(t *testing.T) {
	got := random.Without([]string{"red", "white", "blue", "black", "yellow"}, "red", "yellow")
	assert.Equal(t, []string{"white", "blue", "black"}, got)
}

func TestWithout_RemovesEveryOccurrence(t *testing.T) {
	got := random.Without([]int{1, 2, 1, 3, 1}, 1)
	assert.Equal(t, []int{2, 3}, got)
}

func TestRange(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, random.Range(0, 4))
	assert.Empty(t, random.Range(3, 3))
}

func TestPropertySampleDistinctPositions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := rapid.SliceOfNDistinct(rapid.IntRange(0, 1000), 0, 20, rapid.ID[int]).Draw(rt, "items")
		n := rapid.IntRange(0, len(items)).Draw(rt, "n")
		seed := rapid.Int64().Draw(rt, "seed")

		got, err := random.Sample(random.NewSeededSource(seed), items, n)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if len(got) != n {
			rt.Fatalf("expected %d elements, got %d", n, len(got))
		}
		seen := map[int]bool{}
		for _, v := range got {
			if seen[v] {
				rt.Fatalf("duplicate element %d in sample %v", v, got)
			}
			if !slices.Contains(items, v) {
				rt.Fatalf("element %d not in input %v", v, items)
			}
			seen[v] = true
		}
	})
}

func TestPropertyShuffleIsPermutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := rapid.SliceOf(rapid.IntRange(-50, 50)).Draw(rt, "items")
		seed := rapid.Int64().Draw(rt, "seed")

		got := random.Shuffle(random.NewSeededSource(seed), items)
		want := slices.Clone(items)
		slices.Sort(want)
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		assert.Equal(rt, want, sorted)
	})
}
