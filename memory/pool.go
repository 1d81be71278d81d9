// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package memory pre-allocates every large buffer the camera, tracker,
// detector and control loop touch, and wraps them in a lock-per-resource
// accessor. Nothing in the hot path allocates per frame.
package memory

const (
	FrameW = 640
	FrameH = 480
	FrameC = 3

	FrameBytes = FrameW * FrameH * FrameC

	// Rotating frame slots the camera writes into. Three is enough to
	// keep the writer off the slot a reader last saw.
	FrameRingN = 3
)

// BBox is the fixed-size tracker/detector result. Valid is packed as
// 0.0/1.0 so the whole box stays five copyable floats.
type BBox struct {
	X, Y, W, H float64
	Valid      float64
}

// IsValid reports a usable detection. Zero-area boxes count as no
// detection even when the tracker flags them valid.
func (b BBox) IsValid() bool {
	return b.Valid > 0 && b.W > 0 && b.H > 0
}

func (b BBox) Area() float64 {
	return b.W * b.H
}

// Pool owns the frame buffers. Callers copy in and out of the slices;
// reassigning them is forbidden.
type Pool struct {
	FrameRing        [FrameRingN][]byte
	FrameForDetector []byte
}

// AllocatePool is called exactly once, at startup, before any worker runs.
func AllocatePool() *Pool {
	p := &Pool{
		FrameForDetector: make([]byte, FrameBytes),
	}
	for i := range p.FrameRing {
		p.FrameRing[i] = make([]byte, FrameBytes)
	}
	return p
}
