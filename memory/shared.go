// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package memory

import (
	"sync"
)

// Shared is the thread-safe view of the pool, one mutex per logical
// resource. Getters return value copies so the caller holds a consistent
// snapshot once the lock is released.
type Shared struct {
	pool *Pool

	frameMu sync.Mutex
	latest  int

	trackerMu   sync.Mutex
	bboxTracker BBox

	detectorMu   sync.Mutex
	bboxDetector BBox

	odomMu                sync.Mutex
	odomX, odomY, odomDeg float64
}

func NewShared(pool *Pool) *Shared {
	return &Shared{pool: pool}
}

// WriteFrame copies src into the next ring slot and publishes it as the
// latest frame. len(src) must be FrameBytes.
func (s *Shared) WriteFrame(src []byte) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	next := (s.latest + 1) % FrameRingN
	copy(s.pool.FrameRing[next], src)
	s.latest = next
}

// ReadFrame copies the latest published frame into dst.
func (s *Shared) ReadFrame(dst []byte) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	copy(dst, s.pool.FrameRing[s.latest])
}

// CopyLatestToDetectorFrame snapshots the latest frame for the detector,
// which runs much slower than the camera.
func (s *Shared) CopyLatestToDetectorFrame() {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	copy(s.pool.FrameForDetector, s.pool.FrameRing[s.latest])
}

// ReadDetectorFrame copies the detector snapshot into dst.
func (s *Shared) ReadDetectorFrame(dst []byte) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	copy(dst, s.pool.FrameForDetector)
}

func (s *Shared) SetTrackerBBox(b BBox) {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()

	s.bboxTracker = b
}

func (s *Shared) TrackerBBox() BBox {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()

	return s.bboxTracker
}

func (s *Shared) SetDetectorBBox(b BBox) {
	s.detectorMu.Lock()
	defer s.detectorMu.Unlock()

	s.bboxDetector = b
}

func (s *Shared) DetectorBBox() BBox {
	s.detectorMu.Lock()
	defer s.detectorMu.Unlock()

	return s.bboxDetector
}

func (s *Shared) SetOdometry(xCM, yCM, headingDeg float64) {
	s.odomMu.Lock()
	defer s.odomMu.Unlock()

	s.odomX, s.odomY, s.odomDeg = xCM, yCM, headingDeg
}

func (s *Shared) Odometry() (xCM, yCM, headingDeg float64) {
	s.odomMu.Lock()
	defer s.odomMu.Unlock()

	return s.odomX, s.odomY, s.odomDeg
}
