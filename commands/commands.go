// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package commands is the hand-off point between external command sources
// (rpc surface, tests) and the control loop: a single-slot queue with
// overwrite-on-produce, clear-on-consume semantics.
package commands

import (
	"sync"
)

// Queue holds at most one pending target and one pending stop. A new
// target overwrites an unconsumed one; stop is idempotent.
type Queue struct {
	mu sync.Mutex

	targetX, targetY float64 // meters
	hasTarget        bool
	stop             bool
}

func NewQueue() *Queue {
	return &Queue{}
}

// SetCatLocation queues a goal in meters.
func (q *Queue) SetCatLocation(xM, yM float64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.targetX, q.targetY = xM, yM
	q.hasTarget = true
}

// SetStop queues a stop.
func (q *Queue) SetStop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stop = true
}

// Poll consumes and clears whatever is pending. The caller never sees a
// half-written target or the same command twice.
func (q *Queue) Poll() (xM, yM float64, hasTarget, stop bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	xM, yM, hasTarget, stop = q.targetX, q.targetY, q.hasTarget, q.stop
	q.hasTarget = false
	q.stop = false

	return xM, yM, hasTarget, stop
}
