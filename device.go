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

package smbus

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Device is a Bus bound to one slave address. It is the typed call surface
// most drivers use: each method issues exactly one transaction, except
// UpdateRegister which reads then writes.
//
// Thread Safety: Device holds no mutable state after construction. Whether
// two goroutines may share one depends on the Bus; the i2c-dev backend
// serializes individual transactions, but sequences of transactions (such
// as UpdateRegister) need external locking.
type Device struct {
	bus       Bus
	wordOrder binary.ByteOrder
	addr      uint16
}

// NewDevice creates a device at addr on bus
func NewDevice(bus Bus, addr uint16, opts ...Option) (*Device, error) {
	if bus == nil {
		return nil, fmt.Errorf("nil bus for device 0x%02X", addr)
	}
	if err := ValidateAddress(addr); err != nil {
		return nil, fmt.Errorf("device 0x%02X: %w", addr, err)
	}

	dev := &Device{
		bus:       bus,
		addr:      addr,
		wordOrder: binary.LittleEndian,
	}

	for _, opt := range opts {
		if err := opt(dev); err != nil {
			return nil, err
		}
	}

	return dev, nil
}

// Address returns the slave address
func (d *Device) Address() uint16 {
	return d.addr
}

// Bus returns the underlying bus
func (d *Device) Bus() Bus {
	return d.bus
}

// ReadByte reads a byte from the device's current register pointer
func (d *Device) ReadByte() (byte, error) {
	value, err := d.bus.ReadByte(d.addr)
	if err != nil {
		return 0, err
	}
	debugf("read  0x%02X -> 0x%02X", d.addr, value)
	return value, nil
}

// WriteByte writes a single byte with no register
func (d *Device) WriteByte(value byte) error {
	debugf("write 0x%02X <- 0x%02X", d.addr, value)
	return d.bus.WriteByte(d.addr, value)
}

// ReadRegister reads the byte stored at reg
func (d *Device) ReadRegister(reg byte) (byte, error) {
	value, err := d.bus.ReadByteData(d.addr, reg)
	if err != nil {
		return 0, err
	}
	debugf("read  0x%02X[0x%02X] -> 0x%02X", d.addr, reg, value)
	return value, nil
}

// WriteRegister stores value at reg
func (d *Device) WriteRegister(reg, value byte) error {
	debugf("write 0x%02X[0x%02X] <- 0x%02X", d.addr, reg, value)
	return d.bus.WriteByteData(d.addr, reg, value)
}

// ReadWord reads the 16-bit register pair at reg in the device's word order
func (d *Device) ReadWord(reg byte) (uint16, error) {
	value, err := d.bus.ReadWordData(d.addr, reg)
	if err != nil {
		return 0, err
	}
	if d.wordOrder == binary.BigEndian {
		value = bits.ReverseBytes16(value)
	}
	debugf("read  0x%02X[0x%02X] -> 0x%04X", d.addr, reg, value)
	return value, nil
}

// WriteWord writes the 16-bit register pair at reg in the device's word order
func (d *Device) WriteWord(reg byte, value uint16) error {
	debugf("write 0x%02X[0x%02X] <- 0x%04X", d.addr, reg, value)
	if d.wordOrder == binary.BigEndian {
		value = bits.ReverseBytes16(value)
	}
	return d.bus.WriteWordData(d.addr, reg, value)
}

// ReadBlock fills buf from consecutive registers starting at reg
func (d *Device) ReadBlock(reg byte, buf []byte) error {
	if err := ValidateBlock(len(buf)); err != nil {
		return err
	}
	if err := d.bus.ReadI2CBlock(d.addr, reg, buf); err != nil {
		return err
	}
	debugf("read  0x%02X[0x%02X] -> % X", d.addr, reg, buf)
	return nil
}

// WriteBlock writes data to consecutive registers starting at reg
func (d *Device) WriteBlock(reg byte, data []byte) error {
	if err := ValidateBlock(len(data)); err != nil {
		return err
	}
	debugf("write 0x%02X[0x%02X] <- % X", d.addr, reg, data)
	return d.bus.WriteI2CBlock(d.addr, reg, data)
}

// UpdateRegister replaces the bits selected by mask with the matching bits
// of value, leaving the others as read from the device.
func (d *Device) UpdateRegister(reg, mask, value byte) error {
	current, err := d.ReadRegister(reg)
	if err != nil {
		return fmt.Errorf("update register 0x%02X: %w", reg, err)
	}
	next := (current &^ mask) | (value & mask)
	if err := d.WriteRegister(reg, next); err != nil {
		return fmt.Errorf("update register 0x%02X: %w", reg, err)
	}
	return nil
}

// Register returns a handle for a single register of this device
func (d *Device) Register(reg byte) *Register {
	return &Register{Device: d, Addr: reg}
}

func (d *Device) String() string {
	return fmt.Sprintf("%s@0x%02X", d.bus.Type(), d.addr)
}
