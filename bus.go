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
	"strings"
)

// I2CBlockMax is the largest payload of a single SMBus or I2C block transfer.
const I2CBlockMax = 32

// MaxAddress is the highest 7-bit slave address.
const MaxAddress = 0x7F

// Bus defines the interface for issuing SMBus transactions on one adapter.
// This can be implemented by the kernel i2c-dev interface, periph.io buses,
// or test doubles. Every call is a single synchronous transaction; the
// result is whatever the adapter reported.
type Bus interface {
	// ReadByte reads one byte from the device's current register pointer
	ReadByte(addr uint16) (byte, error)

	// WriteByte writes one byte with no register (sets the register pointer
	// on most devices)
	WriteByte(addr uint16, value byte) error

	// ReadByteData reads the byte at register reg
	ReadByteData(addr uint16, reg byte) (byte, error)

	// WriteByteData writes value to register reg
	WriteByteData(addr uint16, reg, value byte) error

	// ReadWordData reads the little-endian word at register reg
	ReadWordData(addr uint16, reg byte) (uint16, error)

	// WriteWordData writes value as a little-endian word at register reg
	WriteWordData(addr uint16, reg byte, value uint16) error

	// ReadI2CBlock fills buf (at most I2CBlockMax bytes) starting at reg
	ReadI2CBlock(addr uint16, reg byte, buf []byte) error

	// WriteI2CBlock writes data (at most I2CBlockMax bytes) starting at reg
	WriteI2CBlock(addr uint16, reg byte, data []byte) error

	// Functionality reports which transactions the adapter supports
	Functionality() (Funcs, error)

	// Close releases the bus
	Close() error

	// Type returns the bus backend type
	Type() BusType
}

// QuickWriter is implemented by buses that can issue SMBus Quick commands.
// It is used for probing addresses without transferring data.
type QuickWriter interface {
	WriteQuick(addr uint16, bit byte) error
}

// BusType represents the backend behind a Bus
type BusType string

const (
	// BusI2CDev is the Linux /dev/i2c-N ioctl interface.
	BusI2CDev BusType = "i2c-dev"
	// BusPeriph is a periph.io I2C bus.
	BusPeriph BusType = "periph"
	// BusMock represents a mock bus for testing
	BusMock BusType = "mock"
)

// Funcs is the adapter functionality bitmask reported by I2C_FUNCS.
type Funcs uint64

// Functionality bits from <linux/i2c.h>.
const (
	FuncI2C                  Funcs = 0x00000001
	Func10BitAddr            Funcs = 0x00000002
	FuncProtocolMangling     Funcs = 0x00000004
	FuncSMBusPEC             Funcs = 0x00000008
	FuncNoStart              Funcs = 0x00000010
	FuncSlave                Funcs = 0x00000020
	FuncSMBusBlockProcCall   Funcs = 0x00008000
	FuncSMBusQuick           Funcs = 0x00010000
	FuncSMBusReadByte        Funcs = 0x00020000
	FuncSMBusWriteByte       Funcs = 0x00040000
	FuncSMBusReadByteData    Funcs = 0x00080000
	FuncSMBusWriteByteData   Funcs = 0x00100000
	FuncSMBusReadWordData    Funcs = 0x00200000
	FuncSMBusWriteWordData   Funcs = 0x00400000
	FuncSMBusProcCall        Funcs = 0x00800000
	FuncSMBusReadBlockData   Funcs = 0x01000000
	FuncSMBusWriteBlockData  Funcs = 0x02000000
	FuncSMBusReadI2CBlock    Funcs = 0x04000000
	FuncSMBusWriteI2CBlock   Funcs = 0x08000000
	FuncSMBusHostNotify      Funcs = 0x10000000
	FuncSMBusByte                  = FuncSMBusReadByte | FuncSMBusWriteByte
	FuncSMBusByteData              = FuncSMBusReadByteData | FuncSMBusWriteByteData
	FuncSMBusWordData              = FuncSMBusReadWordData | FuncSMBusWriteWordData
	FuncSMBusI2CBlock              = FuncSMBusReadI2CBlock | FuncSMBusWriteI2CBlock
	FuncSMBusEmulated              = FuncSMBusQuick | FuncSMBusByte | FuncSMBusByteData |
		FuncSMBusWordData | FuncSMBusProcCall | FuncSMBusWriteBlockData | FuncSMBusI2CBlock | FuncSMBusPEC
)

var funcNames = []struct {
	name string
	bit  Funcs
}{
	{"i2c", FuncI2C},
	{"10bit-addr", Func10BitAddr},
	{"protocol-mangling", FuncProtocolMangling},
	{"pec", FuncSMBusPEC},
	{"nostart", FuncNoStart},
	{"slave", FuncSlave},
	{"block-proc-call", FuncSMBusBlockProcCall},
	{"quick", FuncSMBusQuick},
	{"read-byte", FuncSMBusReadByte},
	{"write-byte", FuncSMBusWriteByte},
	{"read-byte-data", FuncSMBusReadByteData},
	{"write-byte-data", FuncSMBusWriteByteData},
	{"read-word-data", FuncSMBusReadWordData},
	{"write-word-data", FuncSMBusWriteWordData},
	{"proc-call", FuncSMBusProcCall},
	{"read-block-data", FuncSMBusReadBlockData},
	{"write-block-data", FuncSMBusWriteBlockData},
	{"read-i2c-block", FuncSMBusReadI2CBlock},
	{"write-i2c-block", FuncSMBusWriteI2CBlock},
	{"host-notify", FuncSMBusHostNotify},
}

// Has reports whether every bit in want is set
func (f Funcs) Has(want Funcs) bool {
	return f&want == want
}

// String lists the set functionality names separated by commas
func (f Funcs) String() string {
	if f == 0 {
		return "none"
	}
	names := make([]string, 0, len(funcNames))
	for _, fn := range funcNames {
		if f&fn.bit != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// ValidateAddress checks that addr is a 7-bit slave address
func ValidateAddress(addr uint16) error {
	if addr > MaxAddress {
		return ErrInvalidAddress
	}
	return nil
}

// ValidateBlock checks an I2C block transfer length
func ValidateBlock(n int) error {
	if n > I2CBlockMax {
		return ErrDataTooLarge
	}
	return nil
}
