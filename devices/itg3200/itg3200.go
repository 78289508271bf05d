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

// Package itg3200 drives the InvenSense ITG-3200 three-axis gyroscope over
// SMBus.
package itg3200

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
)

const (
	// DefaultAddress is the 7-bit address with AD0 low
	DefaultAddress uint16 = 0x68
	// AlternateAddress is the 7-bit address with AD0 high
	AlternateAddress uint16 = 0x69

	// Sensitivity is LSB per degree/second at full scale
	Sensitivity = 14.375
)

// Registers
const (
	RegWhoAmI     byte = 0x00
	RegSmplrtDiv  byte = 0x15
	RegDLPFFS     byte = 0x16
	RegIntCfg     byte = 0x17
	RegIntStatus  byte = 0x1A
	RegTempOutH   byte = 0x1B
	RegTempOutL   byte = 0x1C
	RegGyroXOutH  byte = 0x1D
	RegGyroXOutL  byte = 0x1E
	RegGyroYOutH  byte = 0x1F
	RegGyroYOutL  byte = 0x20
	RegGyroZOutH  byte = 0x21
	RegGyroZOutL  byte = 0x22
	RegPowerMgmt  byte = 0x3E
	whoAmIMask    byte = 0x7E
	whoAmIValue   byte = 0x68
	powerSleepBit byte = 1 << 6
)

// FullScale selects ±2000°/s, the only documented range
const FullScale byte = 3 << 3

// LowPass is the digital low-pass filter bandwidth
type LowPass byte

// Low-pass filter settings
const (
	LowPass256Hz LowPass = iota
	LowPass188Hz
	LowPass98Hz
	LowPass42Hz
	LowPass20Hz
	LowPass10Hz
	LowPass5Hz
)

// Axis selects one gyroscope axis
type Axis int

// Axes
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Config holds the settings written by Init
type Config struct {
	SampleRateDivider byte
	LowPass           LowPass
}

// DefaultConfig matches the setup the flight controller used: a sample
// divider of 10 with the widest filter.
func DefaultConfig() Config {
	return Config{SampleRateDivider: 0x0A, LowPass: LowPass256Hz}
}

// Gyro is an ITG-3200 on an SMBus
type Gyro struct {
	dev         *smbus.Device
	config      Config
	offset      [3]int16
	initialized bool
}

// New creates a gyro at addr. Nothing is sent until Init.
func New(bus smbus.Bus, addr uint16) (*Gyro, error) {
	dev, err := smbus.NewDevice(bus, addr, smbus.WithBigEndianWords())
	if err != nil {
		return nil, err
	}
	return &Gyro{dev: dev, config: DefaultConfig()}, nil
}

// SetConfig replaces the settings used by the next Init
func (g *Gyro) SetConfig(cfg Config) {
	g.config = cfg
	g.initialized = false
}

// WhoAmI returns the identification register
func (g *Gyro) WhoAmI() (byte, error) {
	return g.dev.ReadRegister(RegWhoAmI)
}

// Init wakes the chip and programs sample rate and filter. It is a no-op
// after the first success.
func (g *Gyro) Init() error {
	if g.initialized {
		return nil
	}

	id, err := g.WhoAmI()
	if err != nil {
		return fmt.Errorf("itg3200: read WHO_AM_I: %w", err)
	}
	if id&whoAmIMask != whoAmIValue {
		return fmt.Errorf("itg3200: unexpected WHO_AM_I 0x%02X", id)
	}

	writes := []struct {
		reg   byte
		value byte
	}{
		{RegPowerMgmt, 0x00},
		{RegSmplrtDiv, g.config.SampleRateDivider},
		{RegDLPFFS, FullScale | byte(g.config.LowPass)},
		{RegIntCfg, 0x00},
	}
	for _, w := range writes {
		if err := g.dev.WriteRegister(w.reg, w.value); err != nil {
			return fmt.Errorf("itg3200: init register 0x%02X: %w", w.reg, err)
		}
	}

	g.initialized = true
	return nil
}

// Stop puts the chip to sleep
func (g *Gyro) Stop() error {
	g.initialized = false
	return g.dev.Register(RegPowerMgmt).SetBits(powerSleepBit)
}

func axisRegister(axis Axis) (byte, error) {
	switch axis {
	case AxisX:
		return RegGyroXOutH, nil
	case AxisY:
		return RegGyroYOutH, nil
	case AxisZ:
		return RegGyroZOutH, nil
	default:
		return 0, fmt.Errorf("itg3200: invalid axis %d", axis)
	}
}

// ReadAxis reads one axis, minus its calibration offset
func (g *Gyro) ReadAxis(axis Axis) (int16, error) {
	reg, err := axisRegister(axis)
	if err != nil {
		return 0, err
	}
	raw, err := g.dev.ReadWord(reg)
	if err != nil {
		return 0, err
	}
	return int16(raw) - g.offset[axis], nil
}

// ReadSample reads all three axes in one block transfer, minus offsets
func (g *Gyro) ReadSample() (x, y, z int16, err error) {
	var buf [6]byte
	if err := g.dev.ReadBlock(RegGyroXOutH, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	x = int16(binary.BigEndian.Uint16(buf[0:])) - g.offset[AxisX]
	y = int16(binary.BigEndian.Uint16(buf[2:])) - g.offset[AxisY]
	z = int16(binary.BigEndian.Uint16(buf[4:])) - g.offset[AxisZ]
	return x, y, z, nil
}

// ReadSampleDegrees reads all three axes in degrees per second
func (g *Gyro) ReadSampleDegrees() (x, y, z float64, err error) {
	rx, ry, rz, err := g.ReadSample()
	if err != nil {
		return 0, 0, 0, err
	}
	return ToDegrees(rx), ToDegrees(ry), ToDegrees(rz), nil
}

// ToDegrees converts a raw reading to degrees per second
func ToDegrees(raw int16) float64 {
	return float64(raw) / Sensitivity
}

// Temperature returns the die temperature in °C
func (g *Gyro) Temperature() (float64, error) {
	raw, err := g.dev.ReadWord(RegTempOutH)
	if err != nil {
		return 0, err
	}
	return 35.0 + (float64(int16(raw))+13200.0)/280.0, nil
}

// Offsets returns the calibration offsets
func (g *Gyro) Offsets() (x, y, z int16) {
	return g.offset[AxisX], g.offset[AxisY], g.offset[AxisZ]
}

// Calibrate averages samples readings taken interval apart while the gyro
// is at rest and stores them as offsets.
func (g *Gyro) Calibrate(ctx context.Context, samples int, interval time.Duration) error {
	if samples <= 0 {
		return fmt.Errorf("itg3200: sample count must be positive, got %d", samples)
	}
	if err := g.Init(); err != nil {
		return err
	}

	g.offset = [3]int16{}
	var sum [3]int64
	for i := 0; i < samples; i++ {
		x, y, z, err := g.ReadSample()
		if err != nil {
			return fmt.Errorf("itg3200: calibration sample %d: %w", i, err)
		}
		sum[AxisX] += int64(x)
		sum[AxisY] += int64(y)
		sum[AxisZ] += int64(z)

		if interval > 0 && i < samples-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}

	for axis := range sum {
		g.offset[axis] = int16(sum[axis] / int64(samples))
	}
	return nil
}
