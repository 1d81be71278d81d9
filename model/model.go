// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package model

import (
	"math"
)

// Rear-axle to front-axle distance of the chassis, used by the bicycle
// kinematic model.
const WheelbaseCM = 11.4

// Below this steering angle the arc radius blows up; treat the motion as a
// straight line instead of reaching for tan().
const straightSteerDeg = 0.5

type Coord struct {
	X, Y float64
}

func (c Coord) Sub(b Coord) Coord {
	return Coord{c.X - b.X, c.Y - b.Y}
}

func (c Coord) Add(b Coord) Coord {
	return Coord{c.X + b.X, c.Y + b.Y}
}

// NormalizeDeg maps an angle to [-180, 180).
func NormalizeDeg(deg float64) float64 {
	a := math.Mod(deg, 360.0)
	if a < 0 {
		a += 360.0
	}
	if a >= 180.0 {
		a -= 360.0
	}
	return a
}

// Model dead-reckons the car's pose from the commanded speed and steering
// angle. Positions are centimeters, headings degrees in [-180, 180).
type Model struct {
	pos     Coord
	heading float64
}

func NewModel() *Model {
	return &Model{}
}

// Reset sets the pose unconditionally, for startup or re-localization.
func (m *Model) Reset(xCM, yCM, headingDeg float64) {
	m.pos = Coord{xCM, yCM}
	m.heading = NormalizeDeg(headingDeg)
}

// Update integrates one tick of motion. speed is signed (negative means
// reverse); cmPerSec is the calibrated velocity magnitude for that speed,
// or <= 0 when uncalibrated. No-op when dtSec <= 0 or speed == 0.
func (m *Model) Update(dtSec float64, speed int, steerDeg, cmPerSec float64) {
	if dtSec <= 0 || speed == 0 {
		return
	}

	v := cmPerSec
	if v <= 0 {
		v = math.Abs(float64(speed)) * 0.5
	}
	if speed < 0 {
		v = -v
	}

	dist := v * dtSec
	hRad := m.heading * math.Pi / 180.0

	if math.Abs(steerDeg) < straightSteerDeg {
		m.pos.X += dist * math.Cos(hRad)
		m.pos.Y += dist * math.Sin(hRad)
		return
	}

	// Arc about the rear axle: signed radius from the steering angle,
	// heading change from the distance travelled along the arc.
	radius := WheelbaseCM / math.Tan(steerDeg*math.Pi/180.0)
	newHRad := hRad + dist/radius

	m.pos.X += radius * (math.Sin(newHRad) - math.Sin(hRad))
	m.pos.Y += radius * (-math.Cos(newHRad) + math.Cos(hRad))
	m.heading = NormalizeDeg(newHRad * 180.0 / math.Pi)
}

func (m *Model) Position() (float64, float64) {
	return m.pos.X, m.pos.Y
}

func (m *Model) Heading() float64 {
	return m.heading
}
