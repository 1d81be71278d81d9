// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package ultrasonic reads an HC-SR04 range sensor over two GPIOs.
package ultrasonic

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
)

const (
	// The HC-SR04 needs ~60 ms between pings or echoes interfere.
	minReadInterval = 60 * time.Millisecond

	// ~5 m round trip; anything longer is a miss.
	echoTimeout = 30 * time.Millisecond

	// Readings outside this window are noise.
	MinCM = 1.0
	MaxCM = 500.0

	speedOfSoundCMPerSec = 34300.0
)

type Dev struct {
	trig, echo gpio.PinIO

	lastCM    float64
	lastValid bool
	lastRead  time.Time
}

func New(trig, echo gpio.PinIO) (*Dev, error) {
	if err := trig.Out(gpio.Low); err != nil {
		return nil, errors.Wrap(err, "ultrasonic: trigger pin")
	}
	if err := echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, errors.Wrap(err, "ultrasonic: echo pin")
	}

	return &Dev{trig: trig, echo: echo}, nil
}

// DistanceCM pings the sensor. ok is false when the echo timed out or the
// reading fell outside [MinCM, MaxCM]. Hardware reads are throttled to
// one per 60 ms; callers in between get the cached result.
func (d *Dev) DistanceCM() (float64, bool) {
	now := time.Now()
	if now.Sub(d.lastRead) < minReadInterval {
		return d.lastCM, d.lastValid
	}
	d.lastRead = now
	d.lastValid = false

	if err := d.trig.Out(gpio.High); err != nil {
		return 0, false
	}
	time.Sleep(10 * time.Microsecond)
	if err := d.trig.Out(gpio.Low); err != nil {
		return 0, false
	}

	if !d.echo.WaitForEdge(echoTimeout) {
		return 0, false
	}
	start := time.Now()
	if !d.echo.WaitForEdge(echoTimeout) {
		return 0, false
	}

	cm := time.Since(start).Seconds() * speedOfSoundCMPerSec / 2.0
	if cm < MinCM || cm > MaxCM {
		return 0, false
	}

	d.lastCM = cm
	d.lastValid = true

	return cm, true
}

// LastDistanceCM is the most recent valid reading, for display. No
// hardware access.
func (d *Dev) LastDistanceCM() (float64, bool) {
	return d.lastCM, d.lastValid
}
