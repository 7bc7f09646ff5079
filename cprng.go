package rollbias

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// CPRNG is a cryptographically secure random source that reads random bytes
// from crypto/rand.Reader in batches to reduce the number of OS calls. It
// is the production Source for all sampling strategies: the OS generator is
// used as a raw bit source only, not as a security boundary. A CPRNG is
// safe to use as long as each goroutine (or each strategy instance) owns
// its own instance.
type CPRNG struct {
	bufPos uint32
	buf    []byte
}

// NewCPRNG creates a new CPRNG with a buffer capacity of capBytes (minimum
// 8, enough for one uint64). A larger buffer means fewer calls into
// crypto/rand.Reader; a smaller one means less memory held per instance.
// NewCPRNG panics if the host provides no working cryptographic generator.
// That failure is fatal: there is no fallback source to degrade to, and
// retrying cannot help.
func NewCPRNG(capBytes uint32) *CPRNG {
	if capBytes < 8 {
		capBytes = 8
	}
	c := &CPRNG{buf: make([]byte, capBytes)}
	if _, err := rand.Read(c.buf); err != nil {
		panic(err)
	}
	c.bufPos = 0
	return c
}

// ensure that n bytes are available, otherwise refill the buffer
func (c *CPRNG) ensure(n int) {
	if c.bufPos+uint32(n) > uint32(len(c.buf)) {
		if _, err := rand.Read(c.buf); err != nil {
			panic(err)
		}
		c.bufPos = 0
	}
}

// Uint64 returns a uniformly distributed uint64.
func (c *CPRNG) Uint64() uint64 {
	c.ensure(8)
	v := binary.LittleEndian.Uint64(c.buf[c.bufPos : c.bufPos+8])
	c.bufPos += 8
	return v
}

// Uint32 returns a uniformly distributed uint32.
func (c *CPRNG) Uint32() uint32 {
	c.ensure(4)
	v := binary.LittleEndian.Uint32(c.buf[c.bufPos : c.bufPos+4])
	c.bufPos += 4
	return v
}

// Float64 returns a uniformly distributed float64 in [0.0, 1.0).
// This function will never return -0.0.
// This function will never return 1.0.
// This function will never return NaN or Inf.
// It uses 52 random bits for the mantissa, the maximum randomness a
// float64 can carry without breaking uniformity.
// See: https://en.wikipedia.org/wiki/Double-precision_floating-point_format
func (c *CPRNG) Float64() float64 {
	u := c.Uint64()

	u &= 0x000FFFFFFFFFFFFF // 52 random bits for mantissa

	const sign uint64 = 0
	const exp uint64 = 1023
	bits := (sign << 63) | (exp << 52) | u
	return math.Float64frombits(bits) - 1.0
}

// IntN returns a uniformly distributed int in the half-open interval [0,n).
// This function compensates for modulo bias by redrawing values that fall
// below the rejection threshold; see uint32n for the reduction used.
// IntN panics if n is not positive: callers in this package only ever pass
// small constants (the outcome domain size, die faces, bag indices), so a
// non-positive n is a programming error, not a recoverable condition.
func (c *CPRNG) IntN(n int) int {
	if n <= 0 {
		panic("rollbias: IntN called with non-positive n")
	}
	return int(uint32n(c.Uint32, uint32(n)))
}
