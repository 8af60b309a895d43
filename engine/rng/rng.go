// Package rng provides the single seedable random source used by every
// gameplay roll: encounters, damage, escape, level-up bonuses and searches.
package rng

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call, enabling save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Range returns a random integer in [lo, hi]. If hi < lo it returns lo.
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		r.pos++
		r.src.Int63()
		return lo
	}
	r.pos++
	return lo + r.src.Intn(hi-lo+1)
}

// Float returns a random float in [0, 1).
func (r *RNG) Float() float64 {
	r.pos++
	return r.src.Float64()
}

// Chance runs a Bernoulli trial that succeeds with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Float() < p
}

// Pick returns a random index into a slice of length n (n > 0).
func (r *RNG) Pick(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
