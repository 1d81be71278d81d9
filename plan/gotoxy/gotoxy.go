// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package gotoxy drives toward a fixed point with a proportional heading
// controller. Stateless; the planner owns arrival and timeout handling.
package gotoxy

import (
	"math"

	"github.com/usedbytes/catbot/model"
)

const (
	// Proportional gain, heading error (deg) to steering angle (deg).
	KP = 1.5

	// Close enough to call the target reached.
	ArrivalThresholdCM = 10.0

	// Above this heading error the car slows down to turn.
	slowErrorDeg = 45.0

	CruiseSpeed = 40
	SlowSpeed   = 20
)

// BearingDeg is the bearing from (x, y) to (tx, ty), degrees.
func BearingDeg(x, y, tx, ty float64) float64 {
	return math.Atan2(ty-y, tx-x) * 180.0 / math.Pi
}

// HeadingError is the signed shortest-path error in [-180, 180).
// Positive means turn left.
func HeadingError(desiredDeg, currentDeg float64) float64 {
	return model.NormalizeDeg(desiredDeg - currentDeg)
}

// Distance is the straight-line distance to the target, cm.
func Distance(x, y, tx, ty float64) float64 {
	return math.Hypot(tx-x, ty-y)
}

// Compute returns the steer and speed for one tick of driving from
// (x, y, headingDeg) toward (tx, ty), all in cm/degrees, and whether the
// car has arrived. On arrival the command is (0, 0).
func Compute(x, y, headingDeg, tx, ty, steerLimitDeg float64) (steerDeg float64, speed int, arrived bool) {
	if Distance(x, y, tx, ty) < ArrivalThresholdCM {
		return 0, 0, true
	}

	err := HeadingError(BearingDeg(x, y, tx, ty), headingDeg)

	steer := KP * err
	if steer > steerLimitDeg {
		steer = steerLimitDeg
	} else if steer < -steerLimitDeg {
		steer = -steerLimitDeg
	}

	speed = CruiseSpeed
	if math.Abs(err) > slowErrorDeg {
		speed = SlowSpeed
	}

	return steer, speed, false
}
