package rollbias

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadWeights reports a weight vector the alias method cannot sample
// from: empty, containing a negative or non-finite entry, or summing to a
// non-positive value.
var ErrBadWeights = errors.New("weights must be non-negative, finite and not all zero")

// AliasTable is an O(1) weighted sampler over indices 0..n-1, built in
// O(n) with Vose's alias method. Every bucket holds at most two indices:
// itself with probability prob[i], and alias[i] with the remainder, so a
// draw costs exactly one bounded integer and one float from the Source.
//
// An AliasTable is immutable after construction. The adaptive strategy
// rebuilds one from its corrected distribution after every roll, which is
// cheap at this domain size.
type AliasTable struct {
	prob  []float64
	alias []int
}

// NewAliasTable builds an alias table from an arbitrary weight vector; the
// weights need not be normalized. It fails for an empty vector, a negative
// or non-finite weight, or a non-positive sum.
//
// Construction is the classical small/large partition: scale each
// normalized weight by n, stack under-full buckets (<1) against over-full
// ones (>=1), and repeatedly let an over-full bucket donate mass to an
// under-full one until either stack empties. Buckets left over by
// floating-point rounding get residual probability 1.
func NewAliasTable(weights []float64) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty weight vector", ErrBadWeights)
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %v at index %d", ErrBadWeights, w, i)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: sum is %v", ErrBadWeights, sum)
	}

	scaled := make([]float64, n)
	for i, w := range weights {
		scaled[i] = w / sum * float64(n)
	}

	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, p := range scaled {
		if p < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	t := &AliasTable{prob: make([]float64, n), alias: make([]int, n)}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		t.prob[s] = scaled[s]
		t.alias[s] = l
		scaled[l] += scaled[s] - 1 // l donated 1-scaled[s] of its mass to s

		if scaled[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// whatever remains carries rounding residue; its true mass is 1
	for _, i := range large {
		t.prob[i] = 1
		t.alias[i] = i
	}
	for _, i := range small {
		t.prob[i] = 1
		t.alias[i] = i
	}
	return t, nil
}

// Len returns the number of buckets.
func (t *AliasTable) Len() int {
	return len(t.prob)
}

// SampleIndex draws one index whose marginal distribution equals the
// normalized input weights, up to floating-point rounding. O(1) per draw:
// pick a uniform bucket, then keep it or follow its alias.
func (t *AliasTable) SampleIndex(src Source) int {
	i := src.IntN(len(t.prob))
	if src.Float64() < t.prob[i] {
		return i
	}
	return t.alias[i]
}
