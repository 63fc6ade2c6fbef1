// Package random provides the sampling helpers used to generate bomb modules:
// ranged integers, single picks, sampling without replacement, shuffles and
// set exclusion. All helpers draw from an injected Source so generation can be
// replayed from a seed.
package random

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidArgument is returned when a request cannot be satisfied by the
// given input, e.g. sampling more elements than exist.
var ErrInvalidArgument = errors.New("random: invalid argument")

// Int returns a uniform integer in the inclusive range [lo, hi].
//
// Precondition: lo <= hi. Panics otherwise.
// Postcondition: lo <= result <= hi.
func Int(src Source, lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("random: Int called with lo %d > hi %d", lo, hi))
	}
	return lo + src.Intn(hi-lo+1)
}

// Pick returns one uniformly chosen element of items.
//
// Postcondition: Returns an element of items, or ErrInvalidArgument if items is empty.
func Pick[T any](src Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: pick from empty set", ErrInvalidArgument)
	}
	return items[src.Intn(len(items))], nil
}

// Sample returns n elements of items chosen uniformly at random without
// replacement. Duplicated values in items are treated as distinct positions.
//
// Postcondition: len(result) == n and every element comes from a distinct
// position of items; ErrInvalidArgument if n < 0 or n > len(items).
func Sample[T any](src Source, items []T, n int) ([]T, error) {
	if n < 0 || n > len(items) {
		return nil, fmt.Errorf("%w: sample %d from %d elements", ErrInvalidArgument, n, len(items))
	}
	pool := slices.Clone(items)
	// Partial Fisher-Yates: the first n slots end up holding the sample.
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}

// Shuffle returns a uniformly random permutation of items. The input is not
// modified.
//
// Postcondition: result is a permutation of items.
func Shuffle[T any](src Source, items []T) []T {
	out := slices.Clone(items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Without returns a copy of items with every occurrence of each excluded
// value removed. The result may be shorter than a later Sample requests;
// callers must guard.
func Without[T comparable](items []T, excluded ...T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !slices.Contains(excluded, it) {
			out = append(out, it)
		}
	}
	return out
}

// Range returns the integers in [lo, hi) in ascending order.
func Range(lo, hi int) []int {
	if hi <= lo {
		return []int{}
	}
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}
