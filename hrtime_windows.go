package rollbias

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// TimeStamp is a relative timestamp with the highest precision available
// on the current runtime system. Values are only comparable between two
// Now() calls within the same run of the same program on the same machine.
type TimeStamp = int64

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	procFreq    = modkernel32.NewProc("QueryPerformanceFrequency")
	procCounter = modkernel32.NewProc("QueryPerformanceCounter")

	qpcFrequency = getFrequency()
)

// getFrequency returns the performance-counter frequency in ticks per second.
func getFrequency() int64 {
	var freq int64
	r1, _, err := procFreq.Call(uintptr(unsafe.Pointer(&freq)))
	if r1 == 0 {
		panic(fmt.Sprintf("QueryPerformanceFrequency failed: %v", err))
	}
	return freq
}

// Now returns a timestamp with the highest precision available on the
// current runtime system.
func Now() TimeStamp {
	var qpc int64
	procCounter.Call(uintptr(unsafe.Pointer(&qpc)))
	return qpc
}

// Elapsed returns the difference between two timestamps in nanoseconds.
// It assumes later comes after earlier and goes negative otherwise.
func Elapsed(earlier, later TimeStamp) int64 {
	result := later - earlier
	result *= int64(1_000_000_000) // ns per sec
	result /= qpcFrequency
	return result
}
