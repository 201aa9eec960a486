package core

import "math/rand/v2"

// RNG is the single ordered random stream consumed by a simulation. Every draw
// advances the same PCG state, so a fixed seed replays the exact sequence.
type RNG struct {
	r    *rand.Rand
	seed int64
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0)), seed: seed}
}

// Seed reports the seed the stream was created or last reseeded with.
func (r *RNG) Seed() int64 { return r.seed }

// Reseed rewinds the stream to the start of the sequence for seed.
func (r *RNG) Reseed(seed int64) {
	r.seed = seed
	r.r = rand.New(rand.NewPCG(uint64(seed), 0))
}

// RandomInt returns a uniform integer in [0, n). It returns 0 when n <= 0
// without consuming a draw.
func (r *RNG) RandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// RandomUniform returns a uniform real in [0, 1).
func (r *RNG) RandomUniform() float64 {
	return r.r.Float64()
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
