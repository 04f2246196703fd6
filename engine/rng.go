package engine

import "math/rand"

// RandomMax bounds the per-tick random trigger value: rolls land in
// [0, RandomMax].
const RandomMax = 999

// countingSource wraps a rand source and counts raw draws, so a
// restored RNG can be advanced to the exact same stream position.
type countingSource struct {
	src rand.Source64
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.n++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw source draws, enabling save/restore.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	return &RNG{seed: seed, cs: cs, src: rand.New(cs)}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Random returns a trigger roll in [0, RandomMax].
func (r *RNG) Random() int32 {
	return int32(r.src.Intn(RandomMax + 1))
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of raw draws made since creation.
func (r *RNG) Position() int64 {
	return r.cs.n
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for rng.cs.n < position {
		rng.cs.Int63()
	}
	return rng
}
