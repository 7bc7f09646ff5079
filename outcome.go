package rollbias

import (
	"errors"
	"fmt"
)

// Outcome is the sum of two six-sided dice, an integer in [2,12].
type Outcome int

const (
	MinOutcome Outcome = 2
	MaxOutcome Outcome = 12

	// NumOutcomes is the size of the outcome domain.
	NumOutcomes = int(MaxOutcome-MinOutcome) + 1

	// bagModulus is the total of the true multiplicities; shuffle-bag sizes
	// must be multiples of it so that bags hold whole copies of the law.
	bagModulus = 36
)

// ErrInvalidOutcome reports a dice sum outside [2,12].
var ErrInvalidOutcome = errors.New("outcome must be between 2 and 12")

// trueCounts[i] is the number of ordered die pairs (d1,d2) that sum to
// outcome i+2: {1,2,3,4,5,6,5,4,3,2,1}, totalling 36.
var trueCounts = [NumOutcomes]int{1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1}

// TrueDistribution returns the exact two-dice probability law, indexed by
// outcome-2. The counts are integers over 36, but the result is normalized
// from the float sum rather than divided by a constant, so it sums to 1.0
// regardless of rounding.
func TrueDistribution() [NumOutcomes]float64 {
	var p [NumOutcomes]float64
	sum := 0.0
	for i, c := range trueCounts {
		p[i] = float64(c)
		sum += float64(c)
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// Valid reports whether o lies in the two-dice domain.
func (o Outcome) Valid() bool {
	return o >= MinOutcome && o <= MaxOutcome
}

// index maps an outcome bijectively onto 0..NumOutcomes-1.
func (o Outcome) index() int {
	return int(o - MinOutcome)
}

// outcomeAt is the inverse of index.
func outcomeAt(i int) Outcome {
	return MinOutcome + Outcome(i)
}

// SplitPair returns one pair of individual die faces (d1,d2) with
// d1,d2 in [1,6] and d1+d2 == sum, chosen uniformly among all feasible
// pairs. It exists so a host can show two plausible dice for a sampled sum;
// it plays no part in sampling itself. SplitPair fails for sums outside
// [2,12].
func SplitPair(src Source, sum Outcome) (d1, d2 int, err error) {
	if !sum.Valid() {
		return 0, 0, fmt.Errorf("%w: got %d", ErrInvalidOutcome, sum)
	}
	lo := int(sum) - 6
	if lo < 1 {
		lo = 1
	}
	hi := int(sum) - 1
	if hi > 6 {
		hi = 6
	}
	d1 = lo + src.IntN(hi-lo+1)
	return d1, int(sum) - d1, nil
}
