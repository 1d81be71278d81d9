// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package search generates the scanning arcs used while looking for the
// cat. Both functions are pure; the planner tracks episode time and
// accumulated rotation.
package search

const (
	// Seconds per arc before the steering direction flips.
	ArcDurationSec = 2.0

	Speed = 20
)

// Tick returns the oscillating-arc command for cycleSec seconds into a
// search episode: full left for the first arc, then alternating.
func Tick(cycleSec, steerLimitDeg float64) (steerDeg float64, speed int) {
	dir := 1.0
	if int(cycleSec/ArcDurationSec)%2 != 0 {
		dir = -1.0
	}

	return dir * steerLimitDeg, Speed
}

// FullCircleTick returns the constant max-left command used to sweep a
// full circle. The caller accumulates heading deltas and stops the
// episode once 360° has been covered.
func FullCircleTick(steerLimitDeg float64) (steerDeg float64, speed int) {
	return steerLimitDeg, Speed
}
