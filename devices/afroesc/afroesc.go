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

// Package afroesc drives Afro ESC motor controllers running the I2C
// firmware. Each controller takes its throttle as a single byte sent
// without a register and stops the motor if the value is not refreshed.
package afroesc

import (
	"context"
	"fmt"
	"sync"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
)

const (
	// MotorBase is the address of motor 0; motor n answers at MotorBase+n
	MotorBase uint16 = 0x29
	// MaxMotors is the number of consecutive addresses the firmware assigns
	MaxMotors = 8
	// MaxSpeed is the highest throttle value
	MaxSpeed = 240
)

// Address returns the bus address of motor n
func Address(motor int) (uint16, error) {
	if motor < 0 || motor >= MaxMotors {
		return 0, fmt.Errorf("afroesc: motor %d out of range 0-%d", motor, MaxMotors-1)
	}
	return MotorBase + uint16(motor), nil
}

// Config holds the arming sequence timing
type Config struct {
	// ArmWrites is how many zero throttle bytes are sent before arming
	ArmWrites int
	// ArmInterval is the gap between arming writes
	ArmInterval time.Duration
}

// DefaultConfig returns the arming sequence the firmware expects at
// power-up.
func DefaultConfig() Config {
	return Config{ArmWrites: 0xFFF, ArmInterval: 10 * time.Microsecond}
}

// ESC is one motor controller
type ESC struct {
	dev    *smbus.Device
	config Config
	speed  int
	mu     sync.Mutex
}

// New creates a controller for motor n. Nothing is sent until Init.
func New(bus smbus.Bus, motor int, cfg Config) (*ESC, error) {
	addr, err := Address(motor)
	if err != nil {
		return nil, err
	}
	dev, err := smbus.NewDevice(bus, addr)
	if err != nil {
		return nil, err
	}
	return &ESC{dev: dev, config: cfg}, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Init arms the controller by holding zero throttle and then sending the
// minimum throttle of 1.
func (e *ESC) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < e.config.ArmWrites; i++ {
		if err := e.dev.WriteByte(0); err != nil {
			return fmt.Errorf("afroesc: arm %v: %w", e.dev, err)
		}
		if err := wait(ctx, e.config.ArmInterval); err != nil {
			return err
		}
	}
	if err := e.dev.WriteByte(1); err != nil {
		return fmt.Errorf("afroesc: arm %v: %w", e.dev, err)
	}
	e.speed = 1
	smbus.Debugf("afroesc: armed %v", e.dev)
	return nil
}

// Speed returns the last throttle set
func (e *ESC) Speed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed clamps speed to 0..MaxSpeed, stores it and sends it once
func (e *ESC) SetSpeed(speed int) error {
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	if speed < 0 {
		speed = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = speed
	return e.dev.WriteByte(byte(speed))
}

// refresh resends the stored throttle
func (e *ESC) refresh() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed, e.dev.WriteByte(byte(e.speed))
}

// Run resends the stored throttle every interval until ctx is done, keeping
// the controller from timing out. Write failures are logged and retried on
// the next tick.
func (e *ESC) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := -1
	for {
		speed, err := e.refresh()
		switch {
		case err != nil:
			smbus.Debugf("afroesc: refresh %v: %v", e.dev, err)
		case speed != last:
			smbus.Debugf("afroesc: %v speed %d", e.dev, speed)
			last = speed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SlowStop lowers the throttle by step every interval until it reaches 0
func (e *ESC) SlowStop(ctx context.Context, step int, interval time.Duration) error {
	if step <= 0 {
		return fmt.Errorf("afroesc: step must be positive, got %d", step)
	}
	for {
		speed := e.Speed()
		if speed == 0 {
			return nil
		}
		if err := e.SetSpeed(speed - step); err != nil {
			return err
		}
		if e.Speed() == 0 {
			return nil
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
}

// Stop cuts the throttle immediately
func (e *ESC) Stop() error {
	return e.SetSpeed(0)
}
