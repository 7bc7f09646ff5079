package rollbias

import (
	"math"
	"sort"
)

// Median returns the median of data, averaging the two middle elements for
// even lengths. The input is not modified. An empty slice yields 0.
func Median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Statistics returns the mean, population variance and standard deviation
// of data. All three are 0 for an empty slice.
func Statistics(data []float64) (mean, variance, stddev float64) {
	n := float64(len(data))
	if n == 0 {
		return 0, 0, 0
	}

	for _, v := range data {
		mean += v
	}
	mean /= n

	for _, v := range data {
		d := v - mean
		variance += d * d
	}
	variance /= n
	return mean, variance, math.Sqrt(variance)
}

// partition rearranges xs around a pivot and returns its final index.
func partition(xs []float64, low, high int) int {
	pivot := xs[high]
	i := low
	for j := low; j < high; j++ {
		if xs[j] < pivot {
			xs[i], xs[j] = xs[j], xs[i]
			i++
		}
	}
	xs[i], xs[high] = xs[high], xs[i]
	return i
}

// quickselect finds the k-th smallest element (0-based) in expected O(n)
// time with randomized pivots. See https://en.wikipedia.org/wiki/Quickselect
func quickselect(xs []float64, k int) float64 {
	rng := NewDPRNG()

	low, high := 0, len(xs)-1
	for low <= high {
		pivotIndex := low + rng.IntN(high-low+1)
		xs[pivotIndex], xs[high] = xs[high], xs[pivotIndex] // move pivot to end
		p := partition(xs, low, high)
		switch {
		case p == k:
			return xs[p]
		case p < k:
			low = p + 1
		default:
			high = p - 1
		}
	}
	return xs[k] // fallback
}

// QuickMedian returns the median of xs in expected O(n) time. For an even
// number of elements it returns the higher of the two middle ones.
// Note: QuickMedian reorders the input slice; pass a copy to avoid that.
func QuickMedian(xs []float64) float64 {
	return quickselect(xs, len(xs)/2)
}
