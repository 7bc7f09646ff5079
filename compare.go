package rollbias

import (
	"fmt"
	"math"
	"slices"
)

// SpeedupResult holds the estimated confidence that one latency sample is
// faster than another by at least the given relative speedup.
type SpeedupResult struct {
	RelativeSpeedup float64
	Confidence      float64
}

// MinLatencySamples is the smallest sample size CompareRollTimes accepts
// per side; medians of anything shorter are too unstable to bootstrap.
const MinLatencySamples = 11

// CompareRollTimes compares two samples of per-roll latencies (float64
// nanoseconds) and computes the confidence that sample A is faster than
// sample B by at least each of the requested relative speedups, via
// bootstrap resampling with reps replicates. It returns one SpeedupResult
// per requested speedup, sorted ascending; a nil or empty speedup list is
// treated as {0.0} ("A is at least as fast as B"). An error is returned
// when either sample has fewer than MinLatencySamples entries.
func CompareRollTimes(sampleA, sampleB []float64, speedups []float64, reps uint64) ([]SpeedupResult, error) {
	if len(sampleA) < MinLatencySamples || len(sampleB) < MinLatencySamples {
		return nil, fmt.Errorf("not enough data points: need at least %d latencies for each sample", MinLatencySamples)
	}
	if len(speedups) == 0 {
		speedups = []float64{0.0}
	}

	speedups = slices.Clone(speedups)
	slices.Sort(speedups)

	conf := BootstrapConfidence(sampleA, sampleB, speedups, reps, 0)

	results := make([]SpeedupResult, 0, len(speedups))
	for _, s := range speedups {
		results = append(results, SpeedupResult{RelativeSpeedup: s, Confidence: conf[s]})
	}
	return results, nil
}

// bootstrapSample returns a sample of len(xs) values drawn from xs with
// replacement. Indices come from a DPRNG seeded with seed; pass 0 for a
// random non-zero seed, or a fixed non-zero seed for reproducible draws.
// The input slice is not modified.
func bootstrapSample(xs []float64, seed uint64) []float64 {
	rng := NewDPRNG(seed)
	sample := make([]float64, len(xs))
	if len(xs) == 0 {
		return sample
	}
	for i := range sample {
		sample[i] = xs[rng.IntN(len(xs))]
	}
	return sample
}

// BootstrapConfidence estimates, for every threshold t, the probability
// that the relative speedup of a over b is at least t. Each of the reps
// replicates draws a bootstrap sample from a and from b, takes their
// medians, and evaluates delta = 1 - median(a')/median(b'); the returned
// map gives the fraction of replicates with delta >= t.
//
// Edge cases: reps == 0 maps every threshold to NaN; a NaN median makes
// its replicate count toward no threshold; equal medians (including both
// zero or both equally infinite) count as delta 0; a near-zero median(b')
// is replaced by a scale-aware epsilon so delta stays finite.
func BootstrapConfidence(a, b []float64, thresholds []float64, reps uint64, seed uint64) map[float64]float64 {
	confidence := make(map[float64]float64, len(thresholds))
	if reps == 0 {
		for _, t := range thresholds {
			confidence[t] = math.NaN()
		}
		return confidence
	}

	counts := make(map[float64]uint64, len(thresholds))
	for range reps {
		medA := QuickMedian(bootstrapSample(a, seed))
		medB := QuickMedian(bootstrapSample(b, seed))
		delta := relativeSpeedup(medA, medB)
		for _, t := range thresholds {
			if delta >= t {
				counts[t]++
			}
		}
	}

	for _, t := range thresholds {
		confidence[t] = float64(counts[t]) / float64(reps)
	}
	return confidence
}

// relativeSpeedup evaluates 1 - medA/medB, guarding NaN inputs, equal
// medians and a vanishing denominator.
func relativeSpeedup(medA, medB float64) float64 {
	switch {
	case math.IsNaN(medA) || math.IsNaN(medB):
		return math.NaN()
	case medA == medB, medA == 0 && medB == 0:
		return 0.0
	}

	eps := math.Max(math.Abs(medB)*1e-12, math.SmallestNonzeroFloat64)
	denom := medB
	if math.Abs(medB) < eps {
		denom = eps // effectively zero, keep delta finite
	}
	return 1.0 - medA/denom
}
