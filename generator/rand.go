package generator

import (
	"math/rand/v2"
)

// pcgIncrement is the fixed stream selector for every seeded source.
const pcgIncrement = 0x9e3779b97f4a7c15

// Rand is a seeded pseudo-random source. Callers depend on the exact order of
// draws, so every helper consumes exactly one underlying draw.
type Rand struct {
	r *rand.Rand
}

// NewRand returns a source that yields the same sequence for the same seed.
func NewRand(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^pcgIncrement))}
}

// Float64 returns a uniform value in [0, 1).
func (g *Rand) Float64() float64 {
	return g.r.Float64()
}

// Chance reports whether a uniform draw falls below p.
func (g *Rand) Chance(p float64) bool {
	return g.r.Float64() < p
}

// Range returns a uniform value in [lo, hi).
func (g *Rand) Range(lo, hi float64) float64 {
	return lo + g.r.Float64()*(hi-lo)
}

// IntRange returns a uniform integer in [lo, hi).
func (g *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.IntN(hi-lo)
}

// Int64Range returns a uniform integer in [lo, hi).
func (g *Rand) Int64Range(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Int64N(hi-lo)
}

// IntN returns a uniform integer in [0, n).
func (g *Rand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}

// Uint64 returns a uniform 64-bit value.
func (g *Rand) Uint64() uint64 {
	return g.r.Uint64()
}

// Pick returns one of options, uniformly.
func (g *Rand) Pick(options ...string) string {
	return options[g.IntN(len(options))]
}
