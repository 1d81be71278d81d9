// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package plan runs the per-tick control policy: poll pending commands,
// read the sensor snapshots, let the behaviour machine pick a control
// law, issue the motion command and integrate odometry with it.
package plan

import (
	"image/color"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/usedbytes/catbot/calibration"
	"github.com/usedbytes/catbot/commands"
	"github.com/usedbytes/catbot/fsm"
	"github.com/usedbytes/catbot/memory"
	"github.com/usedbytes/catbot/model"
	"github.com/usedbytes/catbot/plan/center"
	"github.com/usedbytes/catbot/plan/gotoxy"
	"github.com/usedbytes/catbot/plan/search"
)

// Driver is the motion hardware the planner commands each tick.
type Driver interface {
	SetSteer(deg float64)
	// Drive takes a signed speed; negative is reverse, zero coasts.
	Drive(speed int)
	Stop()
}

// Ranger reports the forward distance when a reading is available.
type Ranger interface {
	DistanceCM() (float64, bool)
}

// StatusLED shows the behaviour state as a color.
type StatusLED interface {
	SetColor(c color.Color)
}

const (
	ImageWidth  = memory.FrameW
	ImageHeight = memory.FrameH

	// Give up driving to a target after this long and fall back to
	// searching where we ended up.
	gotoTimeout = 30 * time.Second

	// Consecutive tracker misses before the cat counts as lost.
	lostThreshold = 15

	fullCircleDeg = 360.0
)

var stateColors = map[fsm.State]color.Color{
	fsm.Idle:       color.NRGBA{0x00, 0xff, 0x00, 0x80},
	fsm.GotoTarget: color.NRGBA{0xf4, 0x9e, 0x42, 0x80},
	fsm.Search:     color.NRGBA{0x42, 0x9e, 0xf4, 0x80},
	fsm.Approach:   color.NRGBA{0xf4, 0x42, 0x86, 0x80},
	fsm.Track:      color.NRGBA{0xff, 0xff, 0xff, 0x80},
	fsm.LostSearch: color.NRGBA{0x86, 0x42, 0xf4, 0x80},
}

type Config struct {
	Location    model.Provider
	Calibration *calibration.Calibration
	Commands    *commands.Queue
	Shared      *memory.Shared
	Driver      Driver
	Ranger      Ranger
	LED         StatusLED
	Clock       clock.Clock
	Logger      golog.Logger
}

type Planner struct {
	log golog.Logger
	clk clock.Clock

	machine *fsm.Machine
	loc     model.Provider
	calib   *calibration.Calibration
	cmds    *commands.Queue
	shared  *memory.Shared
	driver  Driver
	ranger  Ranger
	led     StatusLED

	lastTick time.Time
	haveLast bool

	// Search-cycle accumulator, reset on entry to GotoTarget, Search and
	// LostSearch. cycleStart also times the goto timeout and the
	// in-transit scan arc.
	cycleStart  time.Time
	prevHeading float64
	accumDeg    float64

	// Obstacle-evade arc keeps its own phase timer.
	evading    bool
	evadeStart time.Time

	lostCount int

	// Last issued command, fed back into odometry.
	cmdSteer float64
	cmdSpeed int
}

func NewPlanner(cfg Config) *Planner {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = golog.Global()
	}
	if cfg.Calibration == nil {
		cfg.Calibration = calibration.Default()
	}

	return &Planner{
		log:     cfg.Logger,
		clk:     cfg.Clock,
		machine: fsm.NewMachine(),
		loc:     cfg.Location,
		calib:   cfg.Calibration,
		cmds:    cfg.Commands,
		shared:  cfg.Shared,
		driver:  cfg.Driver,
		ranger:  cfg.Ranger,
		led:     cfg.LED,
	}
}

func (p *Planner) State() fsm.State {
	return p.machine.State()
}

func (p *Planner) Machine() *fsm.Machine {
	return p.machine
}

// Tick runs one control cycle. Safe to call at any rate; elapsed time is
// measured, not assumed.
func (p *Planner) Tick() {
	now := p.clk.Now()
	dt := 0.0
	if p.haveLast {
		dt = now.Sub(p.lastTick).Seconds()
	}
	p.lastTick = now
	p.haveLast = true

	// At most one pending target and one pending stop per tick. Stop is
	// applied last so it always wins.
	if x, y, hasTarget, stop := p.cmds.Poll(); hasTarget || stop {
		if hasTarget {
			p.dispatch(fsm.CatLocationReceived, x, y)
		}
		if stop {
			p.dispatch(fsm.StopCommand)
			p.stop()
		}
	}

	state := p.machine.State()
	bbox := p.shared.TrackerBBox()

	// Ranger is suppressed while Idle; no point pinging a parked car.
	var rangeCM float64
	var haveRange bool
	if state != fsm.Idle && p.ranger != nil {
		rangeCM, haveRange = p.ranger.DistanceCM()
	}

	// Obstacle override: anything nearer than the hold distance makes
	// the car swerve away, whatever the behaviour state wants.
	if haveRange && rangeCM < p.calib.TargetDistanceCM() {
		if !p.evading {
			p.evading = true
			p.evadeStart = now
			p.log.Debugw("obstacle evade", "range_cm", rangeCM)
		}
		steer, speed := search.Tick(now.Sub(p.evadeStart).Seconds(), p.calib.MaxSteerAngleDeg())
		p.issue(steer, speed)
		p.finish(dt)
		return
	}
	p.evading = false

	switch state {
	case fsm.Idle:
		p.stop()
	case fsm.GotoTarget:
		p.tickGoto(now, bbox)
	case fsm.Search, fsm.LostSearch:
		p.tickSearch(bbox)
	case fsm.Approach, fsm.Track:
		p.tickFollow(state, bbox, rangeCM, haveRange)
	}

	p.finish(dt)
}

func (p *Planner) tickGoto(now time.Time, bbox memory.BBox) {
	if bbox.IsValid() {
		p.dispatch(fsm.CatFound, bbox.X, bbox.Y, bbox.W, bbox.H)
		return
	}

	elapsed := now.Sub(p.cycleStart)
	if elapsed > gotoTimeout {
		p.stop()
		p.dispatch(fsm.Timeout)
		return
	}

	tx, ty, ok := p.machine.Target()
	if !ok {
		p.stop()
		return
	}
	// Targets arrive in meters; the core works in cm.
	tx *= 100
	ty *= 100

	x, y := p.loc.Position()
	limit := p.calib.MaxSteerAngleDeg()
	steer, speed, arrived := gotoxy.Compute(x, y, p.loc.Heading(), tx, ty, limit)
	if arrived {
		p.stop()
		p.dispatch(fsm.AtTarget)
		return
	}

	// Sweep the camera across the path while in transit, same arc shape
	// as a search episode.
	scan, _ := search.Tick(elapsed.Seconds(), limit)
	p.issue(steer+scan, speed)
}

func (p *Planner) tickSearch(bbox memory.BBox) {
	if bbox.IsValid() {
		p.dispatch(fsm.CatFound, bbox.X, bbox.Y, bbox.W, bbox.H)
		return
	}

	h := p.loc.Heading()
	p.accumDeg += model.NormalizeDeg(h - p.prevHeading)
	p.prevHeading = h

	if math.Abs(p.accumDeg) >= fullCircleDeg {
		p.stop()
		p.dispatch(fsm.SearchCycleDone)
		return
	}

	steer, speed := search.FullCircleTick(p.calib.MaxSteerAngleDeg())
	p.issue(steer, speed)
}

func (p *Planner) tickFollow(state fsm.State, bbox memory.BBox, rangeCM float64, haveRange bool) {
	if !bbox.IsValid() {
		p.lostCount++
		if p.lostCount >= lostThreshold {
			p.stop()
			p.dispatch(fsm.CatLost)
		}
		return
	}
	p.lostCount = 0

	if !haveRange {
		if d, ok := p.calib.DistanceFromBBoxArea(bbox.Area()); ok {
			rangeCM, haveRange = d, true
		}
	}

	target := p.calib.TargetDistanceCM()
	steer, speed := center.Compute(bbox.X, bbox.Y, bbox.W, bbox.H,
		ImageWidth, ImageHeight, rangeCM, haveRange, target, p.calib.MaxSteerAngleDeg())
	p.issue(steer, speed)

	if state == fsm.Approach && haveRange && rangeCM <= target+center.DeadBandCM {
		p.dispatch(fsm.DistanceReached)
	}
}

// dispatch routes an event through the machine and runs the entry effects
// of any transition it caused.
func (p *Planner) dispatch(ev fsm.Event, payload ...float64) {
	before := p.machine.State()
	after := p.machine.Dispatch(ev, payload...)
	if after == before {
		return
	}

	p.log.Infow("transition", "event", ev.String(), "from", before.String(), "to", after.String())

	switch after {
	case fsm.GotoTarget, fsm.Search, fsm.LostSearch:
		p.resetCycle()
	}
	p.lostCount = 0

	if p.led != nil {
		p.led.SetColor(stateColors[after])
	}
}

func (p *Planner) resetCycle() {
	p.cycleStart = p.clk.Now()
	p.prevHeading = p.loc.Heading()
	p.accumDeg = 0
}

// issue clamps and sends a command, remembering it for odometry.
func (p *Planner) issue(steerDeg float64, speed int) {
	limit := p.calib.MaxSteerAngleDeg()
	if steerDeg > limit {
		steerDeg = limit
	} else if steerDeg < -limit {
		steerDeg = -limit
	}

	if speed > 100 {
		speed = 100
	} else if speed < -100 {
		speed = -100
	}

	p.driver.SetSteer(steerDeg)
	p.driver.Drive(speed)

	p.cmdSteer, p.cmdSpeed = steerDeg, speed
}

func (p *Planner) stop() {
	p.driver.Stop()
	p.cmdSpeed = 0
}

// finish integrates odometry with the command that was just issued and
// publishes the fresh pose.
func (p *Planner) finish(dt float64) {
	if dt > 0 && p.cmdSpeed != 0 {
		mag := p.cmdSpeed
		if mag < 0 {
			mag = -mag
		}
		p.loc.Update(dt, p.cmdSpeed, p.cmdSteer, p.calib.CMPerSec(mag))
	}

	x, y := p.loc.Position()
	p.shared.SetOdometry(x, y, p.loc.Heading())
}
