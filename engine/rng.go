package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call so a session can be replayed.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random integer in [0, n). n <= 1 always yields 0 and does
// not advance the position. Every draw consumes exactly one value from the
// source, so the position alone identifies the generator state.
func (r *RNG) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	r.pos++
	return int(r.src.Int63() % int64(n))
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
