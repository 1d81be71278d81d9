// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package main

import (
	"context"
	"net"
	"net/http"
	"net/rpc"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/usedbytes/catbot/base"
	"github.com/usedbytes/catbot/calibration"
	"github.com/usedbytes/catbot/commands"
	"github.com/usedbytes/catbot/memory"
	"github.com/usedbytes/catbot/model"
	"github.com/usedbytes/catbot/plan"
	"github.com/usedbytes/catbot/workers"
)

const (
	calibrationFile = "calibration.toml"
	tickPeriod      = 33 * time.Millisecond
	telemAddr       = ":1234"
)

type Pose struct {
	X, Y    float64
	Heading float64
}

// Telem is the rpc surface: pose/state/bbox/range out, target/stop
// commands in.
type Telem struct {
	shared   *memory.Shared
	cmds     *commands.Queue
	planner  *plan.Planner
	platform *base.Platform
}

func (t *Telem) GetPose(ignored bool, pose *Pose) error {
	x, y, h := t.shared.Odometry()
	*pose = Pose{X: x, Y: y, Heading: h}

	return nil
}

func (t *Telem) GetState(ignored bool, state *string) error {
	*state = t.planner.State().String()

	return nil
}

func (t *Telem) GetBBox(ignored bool, bbox *memory.BBox) error {
	*bbox = t.shared.TrackerBBox()

	return nil
}

// GetRange reports the last valid ultrasonic reading, or -1 when none
// has been seen.
func (t *Telem) GetRange(ignored bool, cm *float64) error {
	d, ok := t.platform.LastDistanceCM()
	if !ok {
		d = -1
	}
	*cm = d

	return nil
}

// SetCatLocation queues a goal; loc is (x, y) in meters.
func (t *Telem) SetCatLocation(loc [2]float64, ack *bool) error {
	t.cmds.SetCatLocation(loc[0], loc[1])
	*ack = true

	return nil
}

func (t *Telem) Stop(ignored bool, ack *bool) error {
	t.cmds.SetStop()
	*ack = true

	return nil
}

func main() {
	logger := golog.NewDevelopmentLogger("catbot")
	logger.Info("Cat Bot")

	calib, err := calibration.Load(calibrationFile)
	if err != nil {
		logger.Warnw("calibration not loaded, using defaults", "error", err)
		calib = calibration.Default()
	}

	pool := memory.AllocatePool()
	shared := memory.NewShared(pool)
	cmds := commands.NewQueue()

	platform := base.NewPlatform(calib.MaxSteerAngleDeg(), logger.Named("base"))
	defer platform.Close()

	mdl := model.NewModel()
	var loc model.Provider = mdl
	if platform.HasIMU() {
		loc = model.NewIMUModel(mdl, platform)
		logger.Info("using IMU heading")
	}
	loc.Reset(0, 0, 0)

	clk := clock.New()
	planner := plan.NewPlanner(plan.Config{
		Location:    loc,
		Calibration: calib,
		Commands:    cmds,
		Shared:      shared,
		Driver:      platform,
		Ranger:      platform,
		LED:         platform,
		Clock:       clk,
		Logger:      logger.Named("plan"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go workers.RunCamera(ctx, shared, clk, logger.Named("camera"))
	go workers.RunTracker(ctx, shared, clk, logger.Named("tracker"))
	go workers.RunDetector(ctx, shared, clk, logger.Named("detector"))

	telem := &Telem{shared: shared, cmds: cmds, planner: planner, platform: platform}
	rpc.Register(telem)
	rpc.HandleHTTP()
	l, err := net.Listen("tcp", telemAddr)
	if err != nil {
		logger.Fatal(err)
	}
	go http.Serve(l, nil)
	logger.Infow("telemetry up", "addr", telemAddr)

	ticker := clk.Ticker(tickPeriod)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			planner.Machine().ResetToIdle()
			platform.Stop()
			return
		case <-ticker.C:
			frame++
			if frame%workers.DetectEveryK == 0 {
				shared.CopyLatestToDetectorFrame()
			}
			planner.Tick()
		}
	}
}
