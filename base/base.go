// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package base owns the car hardware: the i2c drive hat, the ultrasonic
// ranger, an optional BNO055 IMU and an optional status LED. It degrades
// to a no-op stub when the hardware isn't there, so the control stack
// runs unchanged on a desk.
package base

import (
	"image/color"

	"github.com/edaniels/golog"
	"github.com/usedbytes/bno055"
	led "github.com/usedbytes/linux-led"
	"go.uber.org/multierr"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/usedbytes/catbot/base/hat"
	"github.com/usedbytes/catbot/base/ultrasonic"
)

const (
	imuAddr = 0x29

	trigPinName = "GPIO27"
	echoPinName = "GPIO22"
)

type Platform struct {
	log golog.Logger

	maxSteerDeg float64

	i2cBus i2c.BusCloser
	hat    *hat.Dev
	imu    *bno055.Dev
	ranger *ultrasonic.Dev

	led        led.RGBLED
	ledColor   color.Color
	ledTrigger led.Trigger
}

// NewPlatform probes the hardware. Every device is optional; missing
// pieces are logged and their accessors become no-ops.
func NewPlatform(maxSteerDeg float64, logger golog.Logger) *Platform {
	p := &Platform{
		log:         logger,
		maxSteerDeg: maxSteerDeg,
		ledColor:    color.NRGBA{0x00, 0xff, 0x00, 0x80},
		ledTrigger:  led.TriggerHeartbeat,
	}

	if _, err := host.Init(); err != nil {
		logger.Warnw("periph host init failed, running as stub", "error", err)
		return p
	}

	b, err := i2creg.Open("")
	if err != nil {
		logger.Warnw("no i2c bus, running as stub", "error", err)
		return p
	}
	p.i2cBus = b

	h, err := hat.NewI2C(b, hat.DefaultAddr)
	if err != nil {
		logger.Warnw("no drive hat", "error", err)
	} else {
		p.hat = h
	}

	imu, err := bno055.NewI2C(b, imuAddr)
	if err != nil {
		logger.Warnw("no BNO055", "error", err)
	} else {
		p.imu = imu
		if err := p.imu.SetUseExternalCrystal(true); err != nil {
			logger.Warnw("IMU: SetUseExternalCrystal failed", "error", err)
		}
	}

	trig := gpioreg.ByName(trigPinName)
	echo := gpioreg.ByName(echoPinName)
	if trig == nil || echo == nil {
		logger.Warnw("ultrasonic pins missing", "trig", trigPinName, "echo", echoPinName)
	} else {
		ranger, err := ultrasonic.New(trig, echo)
		if err != nil {
			logger.Warnw("no ultrasonic", "error", err)
		} else {
			p.ranger = ranger
		}
	}

	return p
}

// SetSteer commands the steering servo, clamping to the calibrated limit.
func (p *Platform) SetSteer(deg float64) {
	if deg > p.maxSteerDeg {
		deg = p.maxSteerDeg
	} else if deg < -p.maxSteerDeg {
		deg = -p.maxSteerDeg
	}

	if p.hat == nil {
		return
	}
	if err := p.hat.SetSteer(deg / p.maxSteerDeg); err != nil {
		p.log.Warnw("steer failed", "error", err)
	}
}

// Drive takes a signed speed in -100..100; sign picks the direction.
func (p *Platform) Drive(speed int) {
	if speed > 0 {
		p.Forward(speed)
	} else if speed < 0 {
		p.Backward(-speed)
	} else {
		p.Stop()
	}
}

func (p *Platform) Forward(speed int) {
	p.setMotors(clampSpeed(speed))
}

func (p *Platform) Backward(speed int) {
	p.setMotors(-clampSpeed(speed))
}

func (p *Platform) Stop() {
	p.setMotors(0)
}

func (p *Platform) setMotors(speed int) {
	if p.hat == nil {
		return
	}

	v := float64(speed) / 100.0
	if err := p.hat.SetMotors(v, v); err != nil {
		p.log.Warnw("motors failed", "error", err)
	}
}

func clampSpeed(speed int) int {
	if speed < 0 {
		return 0
	}
	if speed > 100 {
		return 100
	}
	return speed
}

// DistanceCM reads the ultrasonic ranger; ok is false without hardware
// or on an invalid echo.
func (p *Platform) DistanceCM() (float64, bool) {
	if p.ranger == nil {
		return 0, false
	}
	return p.ranger.DistanceCM()
}

// LastDistanceCM is the most recent valid range, without pinging.
func (p *Platform) LastDistanceCM() (float64, bool) {
	if p.ranger == nil {
		return 0, false
	}
	return p.ranger.LastDistanceCM()
}

// HasIMU reports whether a BNO055 answered on the bus.
func (p *Platform) HasIMU() bool {
	return p.imu != nil
}

// Heading returns the IMU euler yaw in degrees.
func (p *Platform) Heading() (float64, error) {
	vec, err := p.imu.GetVector(bno055.VECTOR_EULER)
	if err != nil {
		return 0, err
	}
	return vec[0], nil
}

func (p *Platform) AddLed(rgb led.RGBLED) {
	p.led = rgb

	p.SetLEDTrigger(p.ledTrigger)
	p.UpdateLed()
}

func (p *Platform) SetLEDTrigger(trig led.Trigger) {
	if p.led == nil {
		return
	}

	p.ledTrigger = trig
	p.led.SetTrigger(p.ledTrigger)
	p.UpdateLed()
}

func (p *Platform) SetColor(c color.Color) {
	p.ledColor = c
	p.UpdateLed()
}

func (p *Platform) UpdateLed() {
	if p.led == nil {
		return
	}

	p.led.SetColor(p.ledColor)
}

func (p *Platform) Close() error {
	var err error

	if p.hat != nil {
		err = multierr.Append(err, p.hat.Halt())
	}
	if p.i2cBus != nil {
		err = multierr.Append(err, p.i2cBus.Close())
	}

	return err
}
