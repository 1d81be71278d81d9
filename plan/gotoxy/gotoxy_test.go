// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package gotoxy

import (
	"testing"

	"go.viam.com/test"
)

func TestArrival(t *testing.T) {
	steer, speed, arrived := Compute(0, 0, 0, 5, 5, 25)
	test.That(t, arrived, test.ShouldBeTrue)
	test.That(t, steer, test.ShouldEqual, 0.0)
	test.That(t, speed, test.ShouldEqual, 0)

	_, _, arrived = Compute(0, 0, 0, 10, 0, 25)
	test.That(t, arrived, test.ShouldBeFalse)
}

func TestHeadingErrorWraparound(t *testing.T) {
	test.That(t, HeadingError(-170, 170), test.ShouldEqual, 20.0)
	test.That(t, HeadingError(170, -170), test.ShouldEqual, -20.0)
	test.That(t, HeadingError(90, 0), test.ShouldEqual, 90.0)
	test.That(t, HeadingError(0, 90), test.ShouldEqual, -90.0)
}

func TestSlowWhenOffCourse(t *testing.T) {
	// Target due "north", car facing "east": 90° error.
	steer, speed, arrived := Compute(0, 0, 0, 0, 100, 25)
	test.That(t, arrived, test.ShouldBeFalse)
	test.That(t, speed, test.ShouldEqual, SlowSpeed)
	test.That(t, steer, test.ShouldEqual, 25.0)
}

func TestCruiseWhenOnCourse(t *testing.T) {
	steer, speed, _ := Compute(0, 0, 0, 100, 10, 25)
	test.That(t, speed, test.ShouldEqual, CruiseSpeed)
	test.That(t, steer, test.ShouldBeGreaterThan, 0.0)
	test.That(t, steer, test.ShouldBeLessThan, 25.0)
}

func TestSteerSign(t *testing.T) {
	// Target to the left of the heading: positive steer.
	left, _, _ := Compute(0, 0, 0, 100, 10, 25)
	test.That(t, left, test.ShouldBeGreaterThan, 0.0)

	// Target to the right: negative steer.
	right, _, _ := Compute(0, 0, 0, 100, -10, 25)
	test.That(t, right, test.ShouldBeLessThan, 0.0)

	test.That(t, left, test.ShouldAlmostEqual, -right, 1e-9)
}

func TestSteerClamped(t *testing.T) {
	// 180° error wants KP*180; the limit wins.
	steer, _, _ := Compute(0, 0, 0, -100, 1, 25)
	test.That(t, steer, test.ShouldEqual, 25.0)

	steer, _, _ = Compute(0, 0, 0, -100, -1, 25)
	test.That(t, steer, test.ShouldEqual, -25.0)
}

func TestProportionalGain(t *testing.T) {
	// 10° error, well under the clamp.
	steer, _, _ := Compute(0, 0, 80, 0, 100, 25)
	test.That(t, steer, test.ShouldAlmostEqual, KP*10.0, 1e-9)
}
