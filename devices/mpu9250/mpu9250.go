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

// Package mpu9250 drives the InvenSense MPU-9250 nine-axis motion sensor
// over SMBus: the MPU-6500 accelerometer and gyroscope plus the AK8963
// magnetometer reached through the bypass multiplexer.
package mpu9250

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
)

const (
	// DefaultAddress is the 7-bit address with AD0 low
	DefaultAddress uint16 = 0x68
	// AlternateAddress is the 7-bit address with AD0 high
	AlternateAddress uint16 = 0x69
	// MagAddress is the fixed address of the AK8963 once bypass is enabled
	MagAddress uint16 = 0x0C
)

// MPU-6500 registers
const (
	RegSmplrtDiv   byte = 0x19
	RegConfig      byte = 0x1A
	RegGyroConfig  byte = 0x1B
	RegAccelConfig byte = 0x1C
	RegIntPinCfg   byte = 0x37
	RegIntEnable   byte = 0x38
	RegAccelXOutH  byte = 0x3B
	RegTempOutH    byte = 0x41
	RegGyroXOutH   byte = 0x43
	RegPwrMgmt1    byte = 0x6B
	RegWhoAmI      byte = 0x75
	whoAmIValue    byte = 0x71
	pwrSleep       byte = 1 << 6
	pwrClockPLL    byte = 0x01
	intBypassEn    byte = 1 << 1
	intRawRdyEn    byte = 0x01
	fullScaleShift      = 3
)

// AK8963 registers
const (
	MagRegWIA   byte = 0x00
	MagRegST1   byte = 0x02
	MagRegHXL   byte = 0x03
	MagRegST2   byte = 0x09
	MagRegCNTL1 byte = 0x0A
	magWIAValue byte = 0x48
	magOutput16 byte = 1 << 4
	magMode2    byte = 0x06
	magHOFL     byte = 1 << 3
)

// MagScale is µT per LSB in 16-bit output mode
const MagScale = 4900.0 / 32768.0

// ErrMagOverflow is returned when every magnetometer read in a sample
// reported sensor overflow.
var ErrMagOverflow = errors.New("mpu9250: magnetometer overflow")

// AccelRange is the accelerometer full-scale selection
type AccelRange byte

// Accelerometer ranges
const (
	Accel2G AccelRange = iota
	Accel4G
	Accel8G
	Accel16G
)

// Scale returns g per LSB
func (r AccelRange) Scale() float64 {
	return float64(int(2)<<r) / 32768.0
}

// GyroRange is the gyroscope full-scale selection
type GyroRange byte

// Gyroscope ranges
const (
	Gyro250DPS GyroRange = iota
	Gyro500DPS
	Gyro1000DPS
	Gyro2000DPS
)

// Scale returns degrees per second per LSB
func (r GyroRange) Scale() float64 {
	return float64(int(250)<<r) / 32768.0
}

// Config holds the settings written by Init
type Config struct {
	Accel AccelRange
	Gyro  GyroRange
	// SettleDelay is waited after each init write
	SettleDelay time.Duration
	// MagAttempts bounds the magnetometer re-reads on overflow
	MagAttempts int
}

// DefaultConfig returns the most sensitive ranges with the 10ms settle
// time the chip needs after each power register change.
func DefaultConfig() Config {
	return Config{
		Accel:       Accel2G,
		Gyro:        Gyro250DPS,
		SettleDelay: 10 * time.Millisecond,
		MagAttempts: 10,
	}
}

// RawSample holds unscaled readings
type RawSample struct {
	Accel [3]int16
	Gyro  [3]int16
	Mag   [3]int16
	Temp  int16
}

// Sample holds readings in g, °/s, µT and °C
type Sample struct {
	Accel [3]float64
	Gyro  [3]float64
	Mag   [3]float64
	Temp  float64
}

// IMU is an MPU-9250 on an SMBus
type IMU struct {
	dev    *smbus.Device
	mag    *smbus.Device
	config Config
}

// New creates an IMU at addr. Nothing is sent until Init.
func New(bus smbus.Bus, addr uint16, cfg Config) (*IMU, error) {
	dev, err := smbus.NewDevice(bus, addr)
	if err != nil {
		return nil, err
	}
	mag, err := smbus.NewDevice(bus, MagAddress)
	if err != nil {
		return nil, err
	}
	if cfg.MagAttempts <= 0 {
		cfg.MagAttempts = 1
	}
	return &IMU{dev: dev, mag: mag, config: cfg}, nil
}

// WhoAmI returns the identification register
func (m *IMU) WhoAmI() (byte, error) {
	return m.dev.ReadRegister(RegWhoAmI)
}

func (m *IMU) settle(ctx context.Context) error {
	if m.config.SettleDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.config.SettleDelay):
		return nil
	}
}

// Init wakes the chip, programs ranges, opens the bypass to the AK8963 and
// starts the magnetometer in 16-bit continuous mode.
func (m *IMU) Init(ctx context.Context) error {
	id, err := m.WhoAmI()
	if err != nil {
		return fmt.Errorf("mpu9250: read WHO_AM_I: %w", err)
	}
	if id != whoAmIValue {
		return fmt.Errorf("mpu9250: unexpected WHO_AM_I 0x%02X", id)
	}

	writes := []struct {
		reg   byte
		value byte
	}{
		{RegSmplrtDiv, 0x00},
		{RegPwrMgmt1, 0x00},
		{RegPwrMgmt1, pwrClockPLL},
		{RegConfig, 0x00},
		{RegGyroConfig, byte(m.config.Gyro) << fullScaleShift},
		{RegAccelConfig, byte(m.config.Accel) << fullScaleShift},
		{RegIntPinCfg, intBypassEn},
		{RegIntEnable, intRawRdyEn},
	}
	for _, w := range writes {
		if err := m.dev.WriteRegister(w.reg, w.value); err != nil {
			return fmt.Errorf("mpu9250: init register 0x%02X: %w", w.reg, err)
		}
		if err := m.settle(ctx); err != nil {
			return err
		}
	}

	wia, err := m.mag.ReadRegister(MagRegWIA)
	if err != nil {
		return fmt.Errorf("mpu9250: read AK8963 WIA: %w", err)
	}
	if wia != magWIAValue {
		return fmt.Errorf("mpu9250: unexpected AK8963 WIA 0x%02X", wia)
	}
	if err := m.mag.WriteRegister(MagRegCNTL1, magOutput16|magMode2); err != nil {
		return fmt.Errorf("mpu9250: start magnetometer: %w", err)
	}
	smbus.Debugf("mpu9250: initialized at %v", m.dev)
	return m.settle(ctx)
}

// Stop powers down the magnetometer and puts the chip to sleep
func (m *IMU) Stop() error {
	if err := m.mag.WriteRegister(MagRegCNTL1, 0x00); err != nil {
		return fmt.Errorf("mpu9250: stop magnetometer: %w", err)
	}
	return m.dev.Register(RegPwrMgmt1).SetBits(pwrSleep)
}

// readMag reads the six AK8963 data bytes and ST2 in one transfer. Reading
// ST2 releases the data registers for the next measurement, so an overflowed
// reading is dropped and read again.
func (m *IMU) readMag(ctx context.Context) ([3]int16, error) {
	var buf [7]byte
	for attempt := 0; attempt < m.config.MagAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return [3]int16{}, err
		}
		if err := m.mag.ReadBlock(MagRegHXL, buf[:]); err != nil {
			return [3]int16{}, err
		}
		st2 := buf[6]
		if st2&magHOFL != 0 {
			smbus.Debugf("mpu9250: magnetometer overflow, ST2=0x%02X", st2)
			continue
		}
		return [3]int16{
			int16(binary.LittleEndian.Uint16(buf[0:])),
			int16(binary.LittleEndian.Uint16(buf[2:])),
			int16(binary.LittleEndian.Uint16(buf[4:])),
		}, nil
	}
	return [3]int16{}, ErrMagOverflow
}

// ReadRaw reads accelerometer, temperature and gyroscope in one block and
// then the magnetometer.
func (m *IMU) ReadRaw(ctx context.Context) (RawSample, error) {
	var s RawSample
	var buf [14]byte
	if err := m.dev.ReadBlock(RegAccelXOutH, buf[:]); err != nil {
		return s, err
	}
	for i := 0; i < 3; i++ {
		s.Accel[i] = int16(binary.BigEndian.Uint16(buf[2*i:]))
		s.Gyro[i] = int16(binary.BigEndian.Uint16(buf[8+2*i:]))
	}
	s.Temp = int16(binary.BigEndian.Uint16(buf[6:]))

	mag, err := m.readMag(ctx)
	if err != nil {
		return s, err
	}
	s.Mag = mag
	return s, nil
}

// ReadSample reads every sensor and scales it by the configured ranges
func (m *IMU) ReadSample(ctx context.Context) (Sample, error) {
	raw, err := m.ReadRaw(ctx)
	if err != nil {
		return Sample{}, err
	}
	return m.Scale(raw), nil
}

// Scale converts a raw sample using the configured ranges
func (m *IMU) Scale(raw RawSample) Sample {
	var s Sample
	accel := m.config.Accel.Scale()
	gyro := m.config.Gyro.Scale()
	for i := 0; i < 3; i++ {
		s.Accel[i] = float64(raw.Accel[i]) * accel
		s.Gyro[i] = float64(raw.Gyro[i]) * gyro
		s.Mag[i] = float64(raw.Mag[i]) * MagScale
	}
	s.Temp = TempCelsius(raw.Temp)
	return s
}

// TempCelsius converts a raw die temperature reading
func TempCelsius(raw int16) float64 {
	return float64(raw)/333.87 + 21.0
}
