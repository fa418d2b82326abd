package stepper

import "math/rand/v2"

// Generator is a seeded pseudorandom stream whose output is fully determined
// by seed and draw count. State can be snapshotted and restored so replaying
// to a frame reproduces identical draws regardless of call pattern.
type Generator struct {
	seed uint64
	pcg  *rand.PCG
	rng  *rand.Rand
}

// NewGenerator constructs a generator from a single seed value.
func NewGenerator(seed uint64) *Generator {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Generator{seed: seed, pcg: pcg, rng: rand.New(pcg)}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Reset rewinds the stream to its initial state.
func (g *Generator) Reset() {
	g.pcg.Seed(g.seed, g.seed^0x9e3779b97f4a7c15)
}

// Snapshot captures the current stream state.
func (g *Generator) Snapshot() ([]byte, error) {
	return g.pcg.MarshalBinary()
}

// Restore rewinds the stream to a previously captured state.
func (g *Generator) Restore(state []byte) error {
	return g.pcg.UnmarshalBinary(state)
}

// Float64 draws the next value in [0, 1).
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

// Uint64 draws the next raw 64-bit value.
func (g *Generator) Uint64() uint64 {
	return g.rng.Uint64()
}

// IntN draws the next value in [0, n).
func (g *Generator) IntN(n int) int {
	return g.rng.IntN(n)
}
