// Command rollbias-bench measures the per-roll latency of the three
// sampling strategies with high-resolution timestamps, prints median,
// mean and standard deviation for each, and bootstrap-estimates the
// confidence that the cheaper strategies really are faster than the
// adaptive one (which pays an alias rebuild per roll).
package main

import (
	"fmt"

	"github.com/dicecore/rollbias"
)

const (
	rollsPerStrategy = 100_000
	bootstrapReps    = 1_000
)

func main() {
	fmt.Printf("timer granularity: %d ns\n", rollbias.ClockPrecision())

	modes := []rollbias.Mode{
		rollbias.ModeRealLife,
		rollbias.ModeAdaptive,
		rollbias.ModeShuffleBag,
	}
	latencies := make(map[rollbias.Mode][]float64, len(modes))

	for _, mode := range modes {
		strat, err := rollbias.New(rollbias.NewCPRNG(8192), mode)
		if err != nil {
			panic(err)
		}

		samples := make([]float64, rollsPerStrategy)
		for i := range samples {
			t1 := rollbias.Now()
			strat.Roll()
			t2 := rollbias.Now()
			samples[i] = float64(rollbias.Elapsed(t1, t2))
		}
		latencies[mode] = samples

		mean, _, stddev := rollbias.Statistics(samples)
		median := rollbias.QuickMedian(samples)
		fmt.Printf("%-12s median %7.0f ns   mean %9.1f ns   stddev %9.1f ns\n",
			mode, median, mean, stddev)
	}

	speedups := []float64{0.0, 0.25, 0.5}
	pairs := [][2]rollbias.Mode{
		{rollbias.ModeRealLife, rollbias.ModeAdaptive},
		{rollbias.ModeShuffleBag, rollbias.ModeAdaptive},
	}
	for _, pair := range pairs {
		results, err := rollbias.CompareRollTimes(latencies[pair[0]], latencies[pair[1]], speedups, bootstrapReps)
		if err != nil {
			panic(err)
		}
		for _, r := range results {
			fmt.Printf("%s ≥ %.0f%% faster than %s → confidence %.4f\n",
				pair[0], r.RelativeSpeedup*100.0, pair[1], r.Confidence)
		}
	}
}
