package hat

import (
	"math"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/i2c"
)

// Register map of the drive hat: one steering servo, two DC motor
// channels with a shared direction register.
const (
	DefaultAddr uint16 = 0x14

	REG_CONTROL   uint8 = 0
	REG_STEER_POS       = 1
	REG_MOTOR_A         = 2
	REG_MOTOR_B         = 3
	REG_MOTOR_DIR       = 4
)

type Dev struct {
	d    conn.Conn
	name string
}

func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, name: "DriveHat"}

	return d, nil
}

func (d *Dev) writeReg(reg uint8, data []byte) error {
	return d.d.Tx(append([]byte{reg}, data...), nil)
}

// toPos maps -1.0..1.0 to the hat's 0..255 register scale.
func toPos(x float64) byte {
	if x < -1.0 {
		x = -1.0
	} else if x > 1.0 {
		x = 1.0
	}

	return byte(math.Round((x + 1.0) / 2.0 * 255.0))
}

// SetSteer positions the steering servo; pos is -1.0 (full right) to 1.0
// (full left).
func (d *Dev) SetSteer(pos float64) error {
	return d.writeReg(REG_STEER_POS, []byte{toPos(pos)})
}

// SetMotors drives both motor channels; a and b are -1.0..1.0, sign is
// direction.
func (d *Dev) SetMotors(a, b float64) error {
	var dir byte
	if a < 0 {
		dir |= 1
		a = -a
	}
	if b < 0 {
		dir |= 2
		b = -b
	}
	if a > 1.0 {
		a = 1.0
	}
	if b > 1.0 {
		b = 1.0
	}

	err := d.writeReg(REG_MOTOR_DIR, []byte{dir})
	if err != nil {
		return err
	}

	err = d.writeReg(REG_MOTOR_A, []byte{byte(math.Round(a * 255.0))})
	if err != nil {
		return err
	}

	return d.writeReg(REG_MOTOR_B, []byte{byte(math.Round(b * 255.0))})
}

// Halt stops the motors and recentres the steering.
func (d *Dev) Halt() error {
	err := d.SetMotors(0, 0)
	if err != nil {
		return err
	}

	return d.SetSteer(0)
}
