// Package rollbias samples sums of two six-sided dice (2..12) under three
// interchangeable strategies: a plain two-die roll, an adaptive strategy
// that statistically suppresses short-run streaks while converging to the
// true two-dice law, and a shuffle bag that draws without replacement from
// an exact multiple of the true multiset. All strategies share one
// roll/undo/snapshot contract and can be reconstructed from a snapshot.
package rollbias

// Source yields the uniform random values the samplers consume. CPRNG is
// the production implementation; DPRNG is deterministic and meant for
// tests and benchmarks. A Source is injected at construction so a caller
// can substitute one for the other without touching strategy code.
type Source interface {
	// Float64 returns a uniformly distributed float64 in [0.0, 1.0).
	Float64() float64
	// IntN returns a uniformly distributed int in [0, n) without modulo
	// bias. It panics if n <= 0.
	IntN(n int) int
}

// uint32n maps a raw 32-bit draw onto [0,n) via Lemire's multiply-shift
// reduction, redrawing values below the bias threshold so every residue is
// equally likely. next must yield uniform uint32 values.
//
// See:
//
//	https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction
//	https://lemire.me/blog/2016/06/30/fast-random-shuffling
func uint32n(next func() uint32, n uint32) uint32 {
	v := next()
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = next()
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}
