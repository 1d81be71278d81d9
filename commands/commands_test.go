// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package commands

import (
	"testing"

	"go.viam.com/test"
)

func TestPollEmpty(t *testing.T) {
	q := NewQueue()

	_, _, hasTarget, stop := q.Poll()
	test.That(t, hasTarget, test.ShouldBeFalse)
	test.That(t, stop, test.ShouldBeFalse)
}

func TestTargetOverwrite(t *testing.T) {
	q := NewQueue()

	q.SetCatLocation(1, 2)
	q.SetCatLocation(3, 4)

	x, y, hasTarget, _ := q.Poll()
	test.That(t, hasTarget, test.ShouldBeTrue)
	test.That(t, x, test.ShouldEqual, 3.0)
	test.That(t, y, test.ShouldEqual, 4.0)

	// Consumed: gone on the next poll.
	_, _, hasTarget, _ = q.Poll()
	test.That(t, hasTarget, test.ShouldBeFalse)
}

func TestStopIdempotent(t *testing.T) {
	q := NewQueue()

	q.SetStop()
	q.SetStop()

	_, _, _, stop := q.Poll()
	test.That(t, stop, test.ShouldBeTrue)

	_, _, _, stop = q.Poll()
	test.That(t, stop, test.ShouldBeFalse)
}

func TestTargetAndStopTogether(t *testing.T) {
	q := NewQueue()

	q.SetCatLocation(1, 1)
	q.SetStop()

	_, _, hasTarget, stop := q.Poll()
	test.That(t, hasTarget, test.ShouldBeTrue)
	test.That(t, stop, test.ShouldBeTrue)
}
