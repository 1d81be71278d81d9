// Copyright 2018 Brian Starkey <stark3y@gmail.com>
package model

// Provider is a pluggable source for the car's position and heading.
// Dead-reckoning providers integrate motion commands in Update; sources
// with their own localization may treat it as a no-op. Further variants
// (wheel encoders, visual odometry) slot in behind the same interface.
type Provider interface {
	Position() (xCM, yCM float64)
	Heading() float64
	Update(dtSec float64, speed int, steerDeg, cmPerSec float64)
	Reset(xCM, yCM, headingDeg float64)
}

// HeadingSource supplies an absolute heading in degrees, e.g. the euler
// yaw from a BNO055.
type HeadingSource interface {
	Heading() (float64, error)
}

// IMUModel layers an absolute heading source over dead reckoning:
// position still comes from integration, heading from the IMU whenever it
// answers.
type IMUModel struct {
	*Model
	src HeadingSource
}

func NewIMUModel(m *Model, src HeadingSource) *IMUModel {
	return &IMUModel{Model: m, src: src}
}

func (im *IMUModel) Heading() float64 {
	h, err := im.src.Heading()
	if err != nil {
		return im.Model.Heading()
	}
	return NormalizeDeg(h)
}
