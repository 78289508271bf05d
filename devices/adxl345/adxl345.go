// go-smbus
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-smbus.
//
// go-smbus is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-smbus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-smbus; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package adxl345 drives the Analog Devices ADXL345 three-axis
// accelerometer over SMBus.
package adxl345

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
)

const (
	// DefaultAddress is the 7-bit address with ALT ADDRESS low
	DefaultAddress uint16 = 0x53
	// AlternateAddress is the 7-bit address with ALT ADDRESS high
	AlternateAddress uint16 = 0x1D

	// DeviceIDValue is the fixed content of the DEVID register
	DeviceIDValue byte = 0xE5

	// ScaleFullRes is g per LSB in full-resolution mode, and in ±2 g
	// fixed 10-bit mode
	ScaleFullRes = 0.0039
)

// Registers
const (
	RegDevID         byte = 0x00
	RegThreshTap     byte = 0x1D
	RegOffsetX       byte = 0x1E
	RegOffsetY       byte = 0x1F
	RegOffsetZ       byte = 0x20
	RegTapDuration   byte = 0x21
	RegTapLatency    byte = 0x22
	RegTapWindow     byte = 0x23
	RegThreshAct     byte = 0x24
	RegThreshInact   byte = 0x25
	RegTimeInact     byte = 0x26
	RegActInactCtl   byte = 0x27
	RegThreshFF      byte = 0x28
	RegTimeFF        byte = 0x29
	RegTapAxes       byte = 0x2A
	RegActTapStatus  byte = 0x2B
	RegBWRate        byte = 0x2C
	RegPowerCtl      byte = 0x2D
	RegIntEnable     byte = 0x2E
	RegIntMap        byte = 0x2F
	RegIntSource     byte = 0x30
	RegDataFormat    byte = 0x31
	RegDataX0        byte = 0x32
	RegFIFOCtl       byte = 0x38
	RegFIFOStatus    byte = 0x39
	bwRateMask       byte = 0x0F
	bwLowPower       byte = 1 << 4
	powerMeasure     byte = 1 << 3
	powerSleep       byte = 1 << 2
	formatFullRes    byte = 1 << 3
	formatRangeMask  byte = 0x03
	formatSelfTest   byte = 1 << 7
	formatJustifyBit byte = 1 << 2
)

// Range is the measurement range
type Range byte

// Ranges
const (
	Range2G Range = iota
	Range4G
	Range8G
	Range16G
)

// String returns the range as ±Ng
func (r Range) String() string {
	return fmt.Sprintf("±%dg", 2<<r)
}

// Rate is the output data rate code for BW_RATE
type Rate byte

// Output data rates
const (
	Rate100Hz  Rate = 0x0A
	Rate200Hz  Rate = 0x0B
	Rate400Hz  Rate = 0x0C
	Rate800Hz  Rate = 0x0D
	Rate1600Hz Rate = 0x0E
	Rate3200Hz Rate = 0x0F
)

// Accel is an ADXL345 on an SMBus
type Accel struct {
	dev     *smbus.Device
	offset  [3]int16
	rng     Range
	fullRes bool
}

// New creates an accelerometer at addr. Nothing is sent until Init.
func New(bus smbus.Bus, addr uint16) (*Accel, error) {
	dev, err := smbus.NewDevice(bus, addr)
	if err != nil {
		return nil, err
	}
	return &Accel{dev: dev, rng: Range2G, fullRes: true}, nil
}

// DeviceID returns the DEVID register
func (a *Accel) DeviceID() (byte, error) {
	return a.dev.ReadRegister(RegDevID)
}

// Init checks the device ID, sets 100 Hz output in full resolution at the
// current range, and starts measuring.
func (a *Accel) Init() error {
	id, err := a.DeviceID()
	if err != nil {
		return fmt.Errorf("adxl345: read DEVID: %w", err)
	}
	if id != DeviceIDValue {
		return fmt.Errorf("adxl345: unexpected DEVID 0x%02X", id)
	}

	if err := a.dev.WriteRegister(RegBWRate, byte(Rate100Hz)); err != nil {
		return fmt.Errorf("adxl345: set data rate: %w", err)
	}
	format := formatFullRes | byte(a.rng)
	if err := a.dev.WriteRegister(RegDataFormat, format); err != nil {
		return fmt.Errorf("adxl345: set data format: %w", err)
	}
	a.fullRes = true
	if err := a.dev.WriteRegister(RegPowerCtl, powerMeasure); err != nil {
		return fmt.Errorf("adxl345: start measuring: %w", err)
	}
	return nil
}

// SetRange changes the measurement range, keeping the other format bits
func (a *Accel) SetRange(r Range) error {
	if r > Range16G {
		return fmt.Errorf("adxl345: invalid range %d", r)
	}
	if err := a.dev.UpdateRegister(RegDataFormat, formatRangeMask, byte(r)); err != nil {
		return err
	}
	a.rng = r
	return nil
}

// SetFullResolution toggles full-resolution mode
func (a *Accel) SetFullResolution(enabled bool) error {
	value := byte(0)
	if enabled {
		value = formatFullRes
	}
	if err := a.dev.UpdateRegister(RegDataFormat, formatFullRes, value); err != nil {
		return err
	}
	a.fullRes = enabled
	return nil
}

// SetDataRate changes the output data rate, keeping the low-power bit
func (a *Accel) SetDataRate(rate Rate) error {
	if rate < Rate100Hz || rate > Rate3200Hz {
		return fmt.Errorf("adxl345: unsupported data rate code 0x%02X", byte(rate))
	}
	return a.dev.UpdateRegister(RegBWRate, bwRateMask, byte(rate))
}

// Stop leaves measurement mode
func (a *Accel) Stop() error {
	return a.dev.Register(RegPowerCtl).ClearBits(powerMeasure)
}

// ReadSample reads the axis values in one block transfer, minus the
// calibration offsets
func (a *Accel) ReadSample() (x, y, z int16, err error) {
	var buf [6]byte
	if err := a.dev.ReadBlock(RegDataX0, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	x = int16(binary.LittleEndian.Uint16(buf[0:])) - a.offset[0]
	y = int16(binary.LittleEndian.Uint16(buf[2:])) - a.offset[1]
	z = int16(binary.LittleEndian.Uint16(buf[4:])) - a.offset[2]
	return x, y, z, nil
}

// Offsets returns the calibration offsets in LSB
func (a *Accel) Offsets() (x, y, z int16) {
	return a.offset[0], a.offset[1], a.offset[2]
}

// Calibrate averages samples readings taken interval apart with the chip
// lying flat and at rest. X and Y are zeroed and Z is trimmed to +1 g. The
// hardware offset registers are cleared first so only software offsets
// apply.
func (a *Accel) Calibrate(ctx context.Context, samples int, interval time.Duration) error {
	if samples <= 0 {
		return fmt.Errorf("adxl345: sample count must be positive, got %d", samples)
	}
	for _, reg := range []byte{RegOffsetX, RegOffsetY, RegOffsetZ} {
		if err := a.dev.WriteRegister(reg, 0); err != nil {
			return fmt.Errorf("adxl345: clear offset 0x%02X: %w", reg, err)
		}
	}

	a.offset = [3]int16{}
	var sum [3]int64
	for i := 0; i < samples; i++ {
		x, y, z, err := a.ReadSample()
		if err != nil {
			return fmt.Errorf("adxl345: calibration sample %d: %w", i, err)
		}
		sum[0] += int64(x)
		sum[1] += int64(y)
		sum[2] += int64(z)

		if interval > 0 && i < samples-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}

	oneG := int64(math.Round(1 / a.Scale()))
	a.offset[0] = int16(sum[0] / int64(samples))
	a.offset[1] = int16(sum[1] / int64(samples))
	a.offset[2] = int16(sum[2]/int64(samples) - oneG)
	return nil
}

// Scale returns g per LSB for the current range and resolution
func (a *Accel) Scale() float64 {
	if a.fullRes {
		return ScaleFullRes
	}
	return ScaleFullRes * float64(int(1)<<a.rng)
}

// ReadSampleG reads the axes in g
func (a *Accel) ReadSampleG() (x, y, z float64, err error) {
	rx, ry, rz, err := a.ReadSample()
	if err != nil {
		return 0, 0, 0, err
	}
	scale := a.Scale()
	return float64(rx) * scale, float64(ry) * scale, float64(rz) * scale, nil
}

// ReadTilt reads the axes and returns the tilt angles in degrees
func (a *Accel) ReadTilt() (xDeg, yDeg float64, err error) {
	x, y, z, err := a.ReadSampleG()
	if err != nil {
		return 0, 0, err
	}
	xDeg, yDeg = TiltDegrees(x, y, z)
	return xDeg, yDeg, nil
}

// TiltDegrees converts a static acceleration in g to the angles of the X
// and Y axes against the horizontal plane. Rotation about Z cannot be
// measured from gravity alone.
func TiltDegrees(x, y, z float64) (xDeg, yDeg float64) {
	xDeg = math.Atan2(x, math.Hypot(y, z)) * 180 / math.Pi
	yDeg = math.Atan2(y, math.Hypot(x, z)) * 180 / math.Pi
	return xDeg, yDeg
}
