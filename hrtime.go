package rollbias

import "math"

const iterationsForCalibration = 1_000_000

var (
	// precision caches the measured timer granularity in nanoseconds.
	precision = int64(-1)
)

// ClockPrecision returns the granularity of timestamps obtained via Now()
// on the runtime system, in nanoseconds. Around 100ns on Windows,
// typically 20-100ns on Linux and macOS. The first call calibrates by
// measuring the smallest observable nonzero difference between adjacent
// timestamps; later calls return the cached value.
//
// The per-roll latencies of the samplers in this package sit near this
// granularity, which is why the bench command reports it alongside its
// measurements.
func ClockPrecision() int64 {
	if precision == int64(-1) {
		precision = calibrateClock()
	}
	return precision
}

func calibrateClock() int64 {
	minDiff := int64(math.MaxInt64)
	for range iterationsForCalibration {
		t1 := Now()
		t2 := Now()
		diff := Elapsed(t1, t2)
		if diff > 0 && diff < minDiff {
			minDiff = diff
		}
	}
	return minDiff
}
