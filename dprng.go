package rollbias

import "math"

// DPRNG is a deterministic pseudo-random source based on the xorshift*
// algorithm (see https://en.wikipedia.org/wiki/Xorshift#xorshift*).
// It has a period of 2^64-1 and produces the same sequence for the same
// seed, which makes strategy behavior reproducible in tests and benchmarks.
// This random number generator is not cryptographically secure.
// This random number generator is not thread-safe.
// The state must never be zero.
type DPRNG struct {
	State uint64
}

// NewDPRNG creates a DPRNG seeded with the given value. Call it without an
// argument, or with 0, to get a random non-zero seed from the OS generator
// instead (a zero state would make xorshift* emit zeros forever).
func NewDPRNG(seed ...uint64) *DPRNG {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	}
	if s == 0 {
		c := NewCPRNG(8)
		for s == 0 {
			s = c.Uint64()
		}
	}
	return &DPRNG{State: s}
}

// Uint64 returns the next pseudo-random number in the sequence.
func (d *DPRNG) Uint64() uint64 {
	x := d.State
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	d.State = x
	return x * 0x2545F4914F6CDD1D
}

// Uint32 returns the upper half of the next Uint64. The high bits of
// xorshift* output are the better-mixed ones.
func (d *DPRNG) Uint32() uint32 {
	return uint32(d.Uint64() >> 32)
}

// Float64 returns a uniformly distributed float64 in [0.0, 1.0), derived
// the same way as CPRNG.Float64 (52 mantissa bits).
func (d *DPRNG) Float64() float64 {
	u := d.Uint64() & 0x000FFFFFFFFFFFFF

	const sign uint64 = 0
	const exp uint64 = 1023
	bits := (sign << 63) | (exp << 52) | u
	return math.Float64frombits(bits) - 1.0
}

// IntN returns a uniformly distributed int in [0,n), bias-compensated like
// CPRNG.IntN. It panics if n is not positive.
func (d *DPRNG) IntN(n int) int {
	if n <= 0 {
		panic("rollbias: IntN called with non-positive n")
	}
	return int(uint32n(d.Uint32, uint32(n)))
}
