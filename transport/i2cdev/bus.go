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

// Package i2cdev provides the Linux i2c-dev backend for smbus. It is the
// only package that issues raw ioctls.
package i2cdev

import (
	"fmt"
	"os"
	"sync"

	smbus "github.com/ZaparooProject/go-smbus"
)

// DevicePath is the i2c-dev node for a bus number
const DevicePath = "/dev/i2c-%d"

// Option configures a Bus
type Option func(*Bus)

// WithForce selects slave addresses with I2C_SLAVE_FORCE, which succeeds
// even when a kernel driver has bound the address.
func WithForce() Option {
	return func(b *Bus) {
		b.force = true
	}
}

// Bus implements smbus.Bus over an i2c-dev descriptor.
//
// Each call selects the slave address (if needed) and issues one SMBus
// transaction while holding the bus lock. Buses created with Open or
// OpenBus own their descriptor and remember the selected address. Buses
// wrapping a caller's descriptor reselect the address on every call, since
// the caller may change it between calls.
type Bus struct {
	file    *os.File
	name    string
	fd      int
	mu      sync.Mutex
	addr    uint16
	addrSet bool
	owned   bool
	closed  bool
	force   bool
}

// Open opens an i2c-dev node such as /dev/i2c-1
func Open(path string, opts ...Option) (*Bus, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", path, err)
	}

	bus := &Bus{
		file:  file,
		name:  path,
		fd:    int(file.Fd()),
		owned: true,
	}
	for _, opt := range opts {
		opt(bus)
	}
	smbus.Debugf("opened %s (fd %d)", path, bus.fd)
	return bus, nil
}

// OpenBus opens /dev/i2c-n
func OpenBus(n int, opts ...Option) (*Bus, error) {
	return Open(fmt.Sprintf(DevicePath, n), opts...)
}

// NewFromFile wraps an already open i2c-dev file. Close does not close f.
func NewFromFile(f *os.File, opts ...Option) *Bus {
	bus := &Bus{
		file: f,
		name: f.Name(),
		fd:   int(f.Fd()),
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// NewFromFD wraps a raw descriptor. Close does not close fd.
func NewFromFD(fd int, opts ...Option) *Bus {
	bus := &Bus{
		name: fmt.Sprintf("fd:%d", fd),
		fd:   fd,
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// Name returns the device path, or fd:N for wrapped descriptors
func (b *Bus) Name() string {
	return b.name
}

// FD returns the underlying descriptor
func (b *Bus) FD() int {
	return b.fd
}

// do runs one transaction against addr under the bus lock
func (b *Bus) do(op string, addr uint16, fn func(fd int) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return smbus.NewBusError(op, b.name, addr, smbus.KindClosed, smbus.ErrBusClosed)
	}
	if err := smbus.ValidateAddress(addr); err != nil {
		return smbus.NewBusError(op, b.name, addr, smbus.KindInvalid, err)
	}

	if err := b.selectAddress(addr); err != nil {
		smbus.Debugf("%s: select 0x%02X failed: %v", b.name, addr, err)
		return smbus.NewBusError(op, b.name, addr, classify(err), err)
	}

	if err := fn(b.fd); err != nil {
		smbus.Debugf("%s: %s 0x%02X failed: %v", b.name, op, addr, err)
		return smbus.NewBusError(op, b.name, addr, classify(err), err)
	}
	return nil
}

func (b *Bus) selectAddress(addr uint16) error {
	if b.owned && b.addrSet && b.addr == addr {
		return nil
	}
	b.addrSet = false
	if err := setAddress(b.fd, addr, b.force); err != nil {
		return err
	}
	b.addr = addr
	b.addrSet = true
	return nil
}

// ReadByte reads one byte at the device's register pointer
func (b *Bus) ReadByte(addr uint16) (byte, error) {
	var value byte
	err := b.do("ReadByte", addr, func(fd int) error {
		var err error
		value, err = ReadByte(fd)
		return err
	})
	return value, err
}

// WriteByte sends one byte with no register
func (b *Bus) WriteByte(addr uint16, value byte) error {
	return b.do("WriteByte", addr, func(fd int) error {
		return WriteByte(fd, value)
	})
}

// ReadByteData reads register reg
func (b *Bus) ReadByteData(addr uint16, reg byte) (byte, error) {
	var value byte
	err := b.do("ReadByteData", addr, func(fd int) error {
		var err error
		value, err = ReadByteData(fd, reg)
		return err
	})
	return value, err
}

// WriteByteData writes value to register reg
func (b *Bus) WriteByteData(addr uint16, reg, value byte) error {
	return b.do("WriteByteData", addr, func(fd int) error {
		return WriteByteData(fd, reg, value)
	})
}

// ReadWordData reads the word at register reg
func (b *Bus) ReadWordData(addr uint16, reg byte) (uint16, error) {
	var value uint16
	err := b.do("ReadWordData", addr, func(fd int) error {
		var err error
		value, err = ReadWordData(fd, reg)
		return err
	})
	return value, err
}

// WriteWordData writes a word at register reg
func (b *Bus) WriteWordData(addr uint16, reg byte, value uint16) error {
	return b.do("WriteWordData", addr, func(fd int) error {
		return WriteWordData(fd, reg, value)
	})
}

// ReadI2CBlock fills buf starting at register reg
func (b *Bus) ReadI2CBlock(addr uint16, reg byte, buf []byte) error {
	if err := smbus.ValidateBlock(len(buf)); err != nil {
		return smbus.NewBusError("ReadI2CBlock", b.name, addr, smbus.KindInvalid, err)
	}
	return b.do("ReadI2CBlock", addr, func(fd int) error {
		return ReadI2CBlock(fd, reg, buf)
	})
}

// WriteI2CBlock writes data starting at register reg
func (b *Bus) WriteI2CBlock(addr uint16, reg byte, data []byte) error {
	if err := smbus.ValidateBlock(len(data)); err != nil {
		return smbus.NewBusError("WriteI2CBlock", b.name, addr, smbus.KindInvalid, err)
	}
	return b.do("WriteI2CBlock", addr, func(fd int) error {
		return WriteI2CBlock(fd, reg, data)
	})
}

// WriteQuick issues an SMBus Quick command, used for probing
func (b *Bus) WriteQuick(addr uint16, bit byte) error {
	return b.do("WriteQuick", addr, func(fd int) error {
		return WriteQuick(fd, bit)
	})
}

// Functionality queries the adapter
func (b *Bus) Functionality() (smbus.Funcs, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, smbus.NewBusError("Functionality", b.name, 0, smbus.KindClosed, smbus.ErrBusClosed)
	}
	funcs, err := functionality(b.fd)
	if err != nil {
		return 0, smbus.NewBusError("Functionality", b.name, 0, classify(err), err)
	}
	return funcs, nil
}

// Close releases the bus. The descriptor is closed only if Open created it.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.owned && b.file != nil {
		if err := b.file.Close(); err != nil {
			return fmt.Errorf("failed to close I2C bus %s: %w", b.name, err)
		}
	}
	return nil
}

// Type returns smbus.BusI2CDev
func (*Bus) Type() smbus.BusType {
	return smbus.BusI2CDev
}

var (
	_ smbus.Bus         = (*Bus)(nil)
	_ smbus.QuickWriter = (*Bus)(nil)
)
