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

// Package i2c provides an smbus.Bus backed by periph.io I2C buses
package i2c

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	smbus "github.com/ZaparooProject/go-smbus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// MaxClockFreq is the fast-mode I2C clock (400 kHz)
const MaxClockFreq = 400 * physic.KiloHertz

// Option configures a Bus
type Option func(*Bus) error

// WithSpeed sets the bus clock. Adapters that cannot change speed return
// an error from New.
func WithSpeed(freq physic.Frequency) Option {
	return func(b *Bus) error {
		if err := b.bus.SetSpeed(freq); err != nil {
			return fmt.Errorf("failed to set I2C speed %s on %s: %w", freq, b.name, err)
		}
		return nil
	}
}

// Bus implements smbus.Bus by expressing each SMBus transaction as a
// combined periph write/read Tx.
type Bus struct {
	bus    i2c.Bus
	closer io.Closer
	name   string
}

// New initializes the periph host drivers and opens busName. An empty
// name opens the first available bus.
func New(busName string, opts ...Option) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	b := &Bus{bus: bus, closer: bus, name: bus.String()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			_ = bus.Close()
			return nil, err
		}
	}
	return b, nil
}

// NewFromBus wraps an existing periph bus. Close does not close it.
func NewFromBus(bus i2c.Bus, opts ...Option) (*Bus, error) {
	b := &Bus{bus: bus, name: bus.String()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Name returns the periph bus name
func (b *Bus) Name() string {
	return b.name
}

func (b *Bus) tx(op string, addr uint16, w, r []byte) error {
	if err := smbus.ValidateAddress(addr); err != nil {
		return smbus.NewBusError(op, b.name, addr, smbus.KindInvalid, err)
	}
	if err := b.bus.Tx(addr, w, r); err != nil {
		smbus.Debugf("%s: %s 0x%02X failed: %v", b.name, op, addr, err)
		return smbus.NewBusError(op, b.name, addr, classify(err), err)
	}
	return nil
}

// ReadByte reads one byte at the device's register pointer
func (b *Bus) ReadByte(addr uint16) (byte, error) {
	var r [1]byte
	if err := b.tx("ReadByte", addr, nil, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// WriteByte sends one byte with no register
func (b *Bus) WriteByte(addr uint16, value byte) error {
	return b.tx("WriteByte", addr, []byte{value}, nil)
}

// ReadByteData writes reg then reads one byte with a repeated start
func (b *Bus) ReadByteData(addr uint16, reg byte) (byte, error) {
	var r [1]byte
	if err := b.tx("ReadByteData", addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// WriteByteData writes reg and value in one message
func (b *Bus) WriteByteData(addr uint16, reg, value byte) error {
	return b.tx("WriteByteData", addr, []byte{reg, value}, nil)
}

// ReadWordData reads two bytes at reg, low byte first
func (b *Bus) ReadWordData(addr uint16, reg byte) (uint16, error) {
	var r [2]byte
	if err := b.tx("ReadWordData", addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return uint16(r[0]) | uint16(r[1])<<8, nil
}

// WriteWordData writes two bytes at reg, low byte first
func (b *Bus) WriteWordData(addr uint16, reg byte, value uint16) error {
	return b.tx("WriteWordData", addr, []byte{reg, byte(value), byte(value >> 8)}, nil)
}

// ReadI2CBlock fills buf starting at reg
func (b *Bus) ReadI2CBlock(addr uint16, reg byte, buf []byte) error {
	if err := smbus.ValidateBlock(len(buf)); err != nil {
		return smbus.NewBusError("ReadI2CBlock", b.name, addr, smbus.KindInvalid, err)
	}
	return b.tx("ReadI2CBlock", addr, []byte{reg}, buf)
}

// WriteI2CBlock writes data starting at reg
func (b *Bus) WriteI2CBlock(addr uint16, reg byte, data []byte) error {
	if err := smbus.ValidateBlock(len(data)); err != nil {
		return smbus.NewBusError("WriteI2CBlock", b.name, addr, smbus.KindInvalid, err)
	}
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return b.tx("WriteI2CBlock", addr, w, nil)
}

// Functionality reports plain I2C plus the SMBus transactions this type
// emulates. Quick commands cannot be expressed as a periph Tx.
func (*Bus) Functionality() (smbus.Funcs, error) {
	return smbus.FuncI2C | smbus.FuncSMBusByte | smbus.FuncSMBusByteData |
		smbus.FuncSMBusWordData | smbus.FuncSMBusI2CBlock, nil
}

// Close closes the bus if New opened it
func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	if err := b.closer.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", b.name, err)
	}
	return nil
}

// Type returns smbus.BusPeriph
func (*Bus) Type() smbus.BusType {
	return smbus.BusPeriph
}

// classify maps errno values that periph's sysfs driver passes through
func classify(err error) smbus.ErrorKind {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return smbus.KindOf(err)
	}
	switch errno {
	case syscall.ENXIO:
		return smbus.KindNoDevice
	case syscall.EBUSY:
		return smbus.KindBusy
	case syscall.ETIMEDOUT:
		return smbus.KindTimeout
	case syscall.EBADF:
		return smbus.KindBadDescriptor
	default:
		return smbus.KindIO
	}
}

// Ensure Bus implements smbus.Bus
var _ smbus.Bus = (*Bus)(nil)
