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

// Package polling watches an SMBus device for attach, detach, and
// register changes by reading it at a fixed interval.
package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
)

// Config controls polling behavior
type Config struct {
	// PollInterval is the delay between reads
	PollInterval time.Duration
	// RemovalMisses is how many consecutive failed reads mark the device
	// detached
	RemovalMisses int
}

// DefaultConfig returns the default polling configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval:  100 * time.Millisecond,
		RemovalMisses: 3,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.RemovalMisses < 1 {
		return errors.New("removal misses must be at least 1")
	}
	return nil
}

// Monitor polls one device. Callbacks run on the polling goroutine.
type Monitor struct {
	device  *smbus.Device
	config  *Config
	reg     *byte
	pointer byte

	OnAttached func(value byte)
	OnDetached func(err error)
	OnChanged  func(oldValue, newValue byte)

	state DeviceState
}

// NewMonitor creates a monitor in pointer mode: each poll sets the
// device's register pointer to 0 with a byte write, then reads one byte.
func NewMonitor(device *smbus.Device, config *Config) (*Monitor, error) {
	if device == nil {
		return nil, errors.New("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid polling config: %w", err)
	}
	return &Monitor{device: device, config: config}, nil
}

// WatchRegister makes the monitor read reg with a register read instead of
// using the register pointer
func (m *Monitor) WatchRegister(reg byte) {
	m.reg = &reg
}

// WatchPointer makes the monitor rewind the register pointer to pointer
// before every read. Devices without registers (for example port
// expanders) ignore the written byte or treat it as output.
func (m *Monitor) WatchPointer(pointer byte) {
	m.reg = nil
	m.pointer = pointer
}

// Start polls until ctx is done or the bus becomes unusable
func (m *Monitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	for {
		if err := m.Poll(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs one read and fires the matching callbacks. It returns an
// error only when the bus itself is unusable (closed, bad descriptor, or
// unsupported transaction); a missing device is a state change.
func (m *Monitor) Poll() error {
	value, err := m.read()
	if err != nil {
		switch smbus.KindOf(err) {
		case smbus.KindClosed, smbus.KindBadDescriptor, smbus.KindUnsupported, smbus.KindInvalid:
			return fmt.Errorf("polling stopped: %w", err)
		}
		if m.state.RecordMiss(m.config.RemovalMisses) && m.OnDetached != nil {
			m.OnDetached(err)
		}
		return nil
	}

	previous, wasPresent := m.state.LastValue, m.state.Present
	if m.state.TransitionToPresent(value) {
		if m.OnAttached != nil {
			m.OnAttached(value)
		}
		return nil
	}
	if wasPresent && previous != value && m.OnChanged != nil {
		m.OnChanged(previous, value)
	}
	return nil
}

func (m *Monitor) read() (byte, error) {
	if m.reg != nil {
		return m.device.ReadRegister(*m.reg)
	}
	// byte reads auto-increment the pointer on most chips
	if err := m.device.WriteByte(m.pointer); err != nil {
		return 0, err
	}
	return m.device.ReadByte()
}

// GetState returns the current device state
func (m *Monitor) GetState() DeviceState {
	return m.state
}

// GetDevice returns the watched device
func (m *Monitor) GetDevice() *smbus.Device {
	return m.device
}
