// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package center keeps the cat in the middle of the frame: lateral steer
// from the bbox offset, forward/back from the range estimate against the
// hold distance.
package center

const (
	// Pixel offset from frame center to steering angle.
	steerGainDegPerPx = 0.08

	ApproachSpeed = 40

	// No forward/back correction within target ± this.
	DeadBandCM = 5.0

	// Without any ranging, creep forward while the bbox covers less than
	// this fraction of the frame.
	smallAreaFrac = 0.1
)

// Compute turns a bbox (pixels) and a range estimate into a steer/speed
// command holding targetDistCM. Negative speed means reverse. haveRange
// false means no usable range; the bbox-size heuristic takes over.
func Compute(bx, by, bw, bh float64, imageW, imageH int,
	rangeCM float64, haveRange bool,
	targetDistCM, steerLimitDeg float64) (steerDeg float64, speed int) {

	cx := bx + bw/2
	errX := cx - float64(imageW)/2

	steer := errX * steerGainDegPerPx
	if steer > steerLimitDeg {
		steer = steerLimitDeg
	} else if steer < -steerLimitDeg {
		steer = -steerLimitDeg
	}

	if !haveRange {
		if bw*bh < float64(imageW)*float64(imageH)*smallAreaFrac {
			return steer, ApproachSpeed
		}
		return steer, 0
	}

	switch {
	case rangeCM > targetDistCM+DeadBandCM:
		speed = ApproachSpeed
	case rangeCM < targetDistCM-DeadBandCM:
		speed = -ApproachSpeed / 2
	}

	return steer, speed
}
