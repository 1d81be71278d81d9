// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package model

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/pkg/errors"
)

func TestNormalizeDeg(t *testing.T) {
	test.That(t, NormalizeDeg(0), test.ShouldEqual, 0.0)
	test.That(t, NormalizeDeg(90), test.ShouldEqual, 90.0)
	test.That(t, NormalizeDeg(180), test.ShouldEqual, -180.0)
	test.That(t, NormalizeDeg(-180), test.ShouldEqual, -180.0)
	test.That(t, NormalizeDeg(360), test.ShouldEqual, 0.0)
	test.That(t, NormalizeDeg(540), test.ShouldEqual, -180.0)
	test.That(t, NormalizeDeg(-190), test.ShouldEqual, 170.0)
	test.That(t, NormalizeDeg(-540), test.ShouldEqual, -180.0)
}

func TestUpdateNoOp(t *testing.T) {
	m := NewModel()
	m.Reset(3, 4, 30)

	m.Update(0, 50, 10, 10)
	m.Update(-1, 50, 10, 10)
	m.Update(1, 0, 10, 10)

	x, y := m.Position()
	test.That(t, x, test.ShouldEqual, 3.0)
	test.That(t, y, test.ShouldEqual, 4.0)
	test.That(t, m.Heading(), test.ShouldEqual, 30.0)
}

func TestStraightLine(t *testing.T) {
	m := NewModel()
	m.Update(1.0, 50, 0, 10)

	x, y := m.Position()
	test.That(t, x, test.ShouldAlmostEqual, 10.0, 1e-9)
	test.That(t, y, test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, m.Heading(), test.ShouldEqual, 0.0)
}

func TestFallbackVelocity(t *testing.T) {
	m := NewModel()
	m.Update(1.0, 50, 0, 0)

	x, _ := m.Position()
	test.That(t, x, test.ShouldAlmostEqual, 25.0, 1e-9)
}

func TestReverse(t *testing.T) {
	m := NewModel()
	m.Update(1.0, -50, 0, 10)

	x, y := m.Position()
	test.That(t, x, test.ShouldAlmostEqual, -10.0, 1e-9)
	test.That(t, y, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestTurnSymmetry(t *testing.T) {
	left := NewModel()
	right := NewModel()

	for i := 0; i < 50; i++ {
		left.Update(0.05, 40, 20, 15)
		right.Update(0.05, 40, -20, 15)
	}

	lx, ly := left.Position()
	rx, ry := right.Position()

	test.That(t, lx, test.ShouldAlmostEqual, rx, 1e-9)
	test.That(t, ly, test.ShouldAlmostEqual, -ry, 1e-9)
	test.That(t, left.Heading(), test.ShouldAlmostEqual, -right.Heading(), 1e-9)
}

func TestFullCircleClosure(t *testing.T) {
	m := NewModel()

	steer := 20.0
	v := 10.0
	radius := WheelbaseCM / math.Tan(steer*math.Pi/180.0)
	total := 2 * math.Pi * radius / v

	steps := 2000
	for i := 0; i < steps; i++ {
		m.Update(total/float64(steps), 40, steer, v)
	}

	x, y := m.Position()
	test.That(t, math.Hypot(x, y), test.ShouldBeLessThan, 2.0)
	test.That(t, math.Abs(NormalizeDeg(m.Heading())), test.ShouldBeLessThan, 5.0)
}

func TestHeadingStaysNormalized(t *testing.T) {
	m := NewModel()

	for i := 0; i < 500; i++ {
		m.Update(0.1, 60, 25, 20)

		h := m.Heading()
		test.That(t, h, test.ShouldBeGreaterThanOrEqualTo, -180.0)
		test.That(t, h, test.ShouldBeLessThan, 180.0)
	}
}

type fixedHeading struct {
	deg float64
	err error
}

func (f *fixedHeading) Heading() (float64, error) {
	return f.deg, f.err
}

func TestIMUModel(t *testing.T) {
	m := NewModel()
	m.Reset(0, 0, 45)

	src := &fixedHeading{deg: 270}
	im := NewIMUModel(m, src)

	test.That(t, im.Heading(), test.ShouldEqual, -90.0)

	// A failing IMU falls back to dead reckoning.
	src.err = errors.New("bus error")
	test.That(t, im.Heading(), test.ShouldEqual, 45.0)

	// Position still integrates.
	im.Update(1.0, 50, 0, 10)
	x, _ := im.Position()
	test.That(t, x, test.ShouldNotEqual, 0.0)
}
