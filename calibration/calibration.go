// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package calibration loads the per-car tuning tables: commanded speed to
// measured cm/s, steering limits, and the hold distance for tracking.
package calibration

import (
	"math"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	defaultMaxSteerDeg      = 25.0
	defaultTargetDistanceCM = 15.0
)

type config struct {
	Speed struct {
		// Pairs of (speed 0-100, measured cm/s), sorted on load.
		CMPerSec [][]float64 `toml:"cm_per_sec"`
	} `toml:"speed"`
	Steering struct {
		MaxSteerAngleDeg float64 `toml:"max_steer_angle_deg"`
		MinTurnRadiusCM  float64 `toml:"min_turn_radius_cm"`
	} `toml:"steering"`
	Distance struct {
		TargetCM float64 `toml:"target_cm"`
		// Pairs of (bbox area px^2, distance cm) for camera-only ranging.
		AreaToCM [][]float64 `toml:"area_to_cm"`
	} `toml:"distance"`
}

type Calibration struct {
	cfg config
}

// Load reads a TOML calibration file. Sections may be omitted; accessors
// fall back to defaults for anything missing.
func Load(path string) (*Calibration, error) {
	c := &Calibration{}
	if _, err := toml.DecodeFile(path, &c.cfg); err != nil {
		return nil, errors.Wrapf(err, "calibration %q", path)
	}

	if err := checkPairs("speed.cm_per_sec", c.cfg.Speed.CMPerSec); err != nil {
		return nil, errors.Wrapf(err, "calibration %q", path)
	}
	if err := checkPairs("distance.area_to_cm", c.cfg.Distance.AreaToCM); err != nil {
		return nil, errors.Wrapf(err, "calibration %q", path)
	}

	sortPairs(c.cfg.Speed.CMPerSec)
	sortPairs(c.cfg.Distance.AreaToCM)

	return c, nil
}

func checkPairs(name string, pairs [][]float64) error {
	for i, p := range pairs {
		if len(p) != 2 {
			return errors.Errorf("%s[%d]: want an (x, y) pair, got %d values", name, i, len(p))
		}
	}
	return nil
}

// Default returns a calibration with no tables: fallback speed model,
// ±25° steering, 15 cm hold distance.
func Default() *Calibration {
	return &Calibration{}
}

// CMPerSec converts a commanded speed (0-100) to cm/s, interpolating the
// measured table and clamping at its ends. Uncalibrated cars get the
// rough max(1, 0.4*speed) model.
func (c *Calibration) CMPerSec(speed int) float64 {
	table := c.cfg.Speed.CMPerSec
	if len(table) == 0 {
		return math.Max(1.0, float64(speed)*0.4)
	}
	return interp(table, float64(speed))
}

// MaxSteerAngleDeg is the symmetric steering limit; commands are clamped
// to ± this.
func (c *Calibration) MaxSteerAngleDeg() float64 {
	if c.cfg.Steering.MaxSteerAngleDeg <= 0 {
		return defaultMaxSteerDeg
	}
	return c.cfg.Steering.MaxSteerAngleDeg
}

// TargetDistanceCM is how far the car holds off the cat while tracking.
func (c *Calibration) TargetDistanceCM() float64 {
	if c.cfg.Distance.TargetCM <= 0 {
		return defaultTargetDistanceCM
	}
	return c.cfg.Distance.TargetCM
}

// DistanceFromBBoxArea estimates range from the tracker bbox area. ok is
// false when the area table was never calibrated.
func (c *Calibration) DistanceFromBBoxArea(areaPx float64) (float64, bool) {
	table := c.cfg.Distance.AreaToCM
	if len(table) == 0 {
		return 0, false
	}
	return interp(table, areaPx), true
}

func sortPairs(pairs [][]float64) {
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i][0] < pairs[j][0]
	})
}

// interp does piecewise-linear interpolation over sorted (x, y) pairs,
// clamped at the table ends.
func interp(pairs [][]float64, x float64) float64 {
	if x <= pairs[0][0] {
		return pairs[0][1]
	}
	last := pairs[len(pairs)-1]
	if x >= last[0] {
		return last[1]
	}

	for i := 0; i < len(pairs)-1; i++ {
		x0, y0 := pairs[i][0], pairs[i][1]
		x1, y1 := pairs[i+1][0], pairs[i+1][1]
		if x0 <= x && x <= x1 {
			return y0 + (x-x0)/(x1-x0)*(y1-y0)
		}
	}

	return last[1]
}
