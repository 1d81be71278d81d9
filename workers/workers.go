// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package workers holds the camera, tracker and detector loops. All three
// are stand-ins for the real vision stack; the shared-memory layout they
// speak is the part that survives the swap.
package workers

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/usedbytes/catbot/memory"
)

const (
	frameInterval = time.Second / 30

	// Detector only looks at every K-th snapshot; the tracker carries
	// the frames in between.
	DetectEveryK = 10
)

// RunCamera fills the frame ring with a rolling byte pattern at ~30 FPS,
// so readers can tell fresh frames from stale ones.
func RunCamera(ctx context.Context, shared *memory.Shared, clk clock.Clock, logger golog.Logger) {
	buf := make([]byte, memory.FrameBytes)
	ticker := clk.Ticker(frameInterval)
	defer ticker.Stop()

	logger.Info("camera loop started (stub)")

	var n byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i := range buf {
				buf[i] = n
			}
			shared.WriteFrame(buf)
			n++
		}
	}
}

// RunTracker consumes the latest frame and publishes a tracker bbox.
// Stub: a fixed box, always valid.
func RunTracker(ctx context.Context, shared *memory.Shared, clk clock.Clock, logger golog.Logger) {
	buf := make([]byte, memory.FrameBytes)
	ticker := clk.Ticker(frameInterval)
	defer ticker.Stop()

	logger.Info("tracker loop started (stub)")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			shared.ReadFrame(buf)
			shared.SetTrackerBBox(memory.BBox{X: 100, Y: 100, W: 80, H: 80, Valid: 1})
		}
	}
}

// RunDetector reads its frame snapshot every K-th pass and publishes a
// detector bbox. Stub: a fixed box, always valid.
func RunDetector(ctx context.Context, shared *memory.Shared, clk clock.Clock, logger golog.Logger) {
	buf := make([]byte, memory.FrameBytes)
	ticker := clk.Ticker(frameInterval)
	defer ticker.Stop()

	logger.Info("detector loop started (stub)")

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n++
			if n%DetectEveryK != 0 {
				continue
			}
			shared.ReadDetectorFrame(buf)
			shared.SetDetectorBBox(memory.BBox{X: 120, Y: 120, W: 60, H: 60, Valid: 1})
		}
	}
}
