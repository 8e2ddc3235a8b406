package fenwick

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a bucket index falls outside [0, Len()).
var ErrOutOfRange = errors.New("fenwick: index out of range")

// Tree is a Binary Indexed Tree of counts over n dense buckets.
// It knows nothing about scores, only bucket indices.
//
// A Tree is owned by a single sweep and is not safe for concurrent use.
type Tree struct {
	// node is 1-based internally; node[0] is unused.
	node  []int
	total int
}

// New returns a tree with n buckets, all counts zero.
func New(n int) *Tree {
	if n < 0 {
		n = 0
	}
	return &Tree{node: make([]int, n+1)}
}

// Len returns the number of buckets.
func (t *Tree) Len() int {
	return len(t.node) - 1
}

// Total returns the sum of all buckets in O(1).
func (t *Tree) Total() int {
	return t.total
}

// Add adds delta (positive or negative) to bucket i.
func (t *Tree) Add(i, delta int) error {
	if i < 0 || i >= t.Len() {
		return fmt.Errorf("%w: add at %d, len %d", ErrOutOfRange, i, t.Len())
	}
	t.add(i, delta)
	return nil
}

// add is Add for an index already known to be in range.
func (t *Tree) add(i, delta int) {
	for j := i + 1; j < len(t.node); j += j & -j {
		t.node[j] += delta
	}
	t.total += delta
}

// PrefixSum returns the sum of buckets [0, i]. PrefixSum(-1) is 0.
func (t *Tree) PrefixSum(i int) (int, error) {
	if i < -1 || i >= t.Len() {
		return 0, fmt.Errorf("%w: prefix sum at %d, len %d", ErrOutOfRange, i, t.Len())
	}
	sum := 0
	for j := i + 1; j > 0; j -= j & -j {
		sum += t.node[j]
	}
	return sum, nil
}

// RangeSum returns the sum of buckets [lo, hi).
func (t *Tree) RangeSum(lo, hi int) (int, error) {
	if lo < 0 || hi > t.Len() || lo > hi {
		return 0, fmt.Errorf("%w: range [%d, %d), len %d", ErrOutOfRange, lo, hi, t.Len())
	}
	upper, err := t.PrefixSum(hi - 1)
	if err != nil {
		return 0, err
	}
	lower, err := t.PrefixSum(lo - 1)
	if err != nil {
		return 0, err
	}
	return upper - lower, nil
}

// CountAtLeast returns the number of counted items in buckets >= i.
// With buckets ordered worst to best this is the rank of an item at i,
// counting ties as ahead.
func (t *Tree) CountAtLeast(i int) (int, error) {
	return t.RangeSum(i, t.Len())
}

// Move shifts one unit from bucket from to bucket to.
// Both indices are checked before anything is mutated.
func (t *Tree) Move(from, to int) error {
	if from < 0 || from >= t.Len() {
		return fmt.Errorf("%w: move from %d, len %d", ErrOutOfRange, from, t.Len())
	}
	if to < 0 || to >= t.Len() {
		return fmt.Errorf("%w: move to %d, len %d", ErrOutOfRange, to, t.Len())
	}
	if from == to {
		return nil
	}
	t.add(from, -1)
	t.add(to, 1)
	return nil
}
