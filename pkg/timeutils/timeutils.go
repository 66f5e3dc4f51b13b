package timeutils

import (
	"fmt"
	"time"
)

// SplitMinutes breaks d into whole minutes and the remaining whole seconds.
// Negative durations are treated as zero.
func SplitMinutes(d time.Duration) (minutes, seconds int) {
	if d <= 0 {
		return 0, 0
	}
	return int(d / time.Minute), int((d % time.Minute) / time.Second)
}

// Countdown renders d as "Xm Ys".
func Countdown(d time.Duration) string {
	m, s := SplitMinutes(d)
	return fmt.Sprintf("%dm %ds", m, s)
}

// MaxDuration returns the larger of a and b.
func MaxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
