//go:build !windows

package rollbias

import "time"

// TimeStamp is a relative timestamp with the highest precision available
// on the current runtime system. Values are only comparable between two
// Now() calls within the same run of the same program on the same machine.
type TimeStamp = time.Time

// Now returns a timestamp with the highest precision available on the
// current runtime system.
func Now() TimeStamp {
	return time.Now()
}

// Elapsed returns the difference between two timestamps in nanoseconds.
// It assumes later comes after earlier and goes negative otherwise.
func Elapsed(earlier, later TimeStamp) int64 {
	return later.Sub(earlier).Nanoseconds()
}
