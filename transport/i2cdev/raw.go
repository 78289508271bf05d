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

package i2cdev

import (
	"encoding/binary"

	smbus "github.com/ZaparooProject/go-smbus"
)

// Transaction direction and sizes from <linux/i2c.h>
const (
	smbusWrite = 0
	smbusRead  = 1

	sizeQuick        = 0
	sizeByte         = 1
	sizeByteData     = 2
	sizeWordData     = 3
	sizeI2CBlockData = 8
)

// smbusData matches union i2c_smbus_data: one byte, one word, or a block
// whose first byte is the length.
type smbusData [smbus.I2CBlockMax + 2]byte

// smbusIoctlData matches struct i2c_smbus_ioctl_data
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      *smbusData
}

// The functions below act on a caller-owned descriptor for /dev/i2c-N whose
// slave address was already selected with SetAddress. Each is exactly one
// I2C_SMBUS ioctl and returns the errno unchanged.

// SetAddress selects the slave addressed by later transactions on fd
func SetAddress(fd int, addr uint16) error {
	return setAddress(fd, addr, false)
}

// ForceAddress selects the slave even if a kernel driver has claimed it
func ForceAddress(fd int, addr uint16) error {
	return setAddress(fd, addr, true)
}

// Functionality queries the adapter functionality bits for fd
func Functionality(fd int) (smbus.Funcs, error) {
	return functionality(fd)
}

// WriteQuick issues an SMBus Quick command with the given read/write bit
func WriteQuick(fd int, bit byte) error {
	return smbusAccess(fd, &smbusIoctlData{readWrite: bit, size: sizeQuick})
}

// ReadByte reads one byte at the device's current register pointer
func ReadByte(fd int) (byte, error) {
	var data smbusData
	err := smbusAccess(fd, &smbusIoctlData{readWrite: smbusRead, size: sizeByte, data: &data})
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// WriteByte sends one byte with no register
func WriteByte(fd int, value byte) error {
	return smbusAccess(fd, &smbusIoctlData{readWrite: smbusWrite, command: value, size: sizeByte})
}

// ReadByteData reads the byte at register reg
func ReadByteData(fd int, reg byte) (byte, error) {
	var data smbusData
	err := smbusAccess(fd, &smbusIoctlData{readWrite: smbusRead, command: reg, size: sizeByteData, data: &data})
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// WriteByteData writes value at register reg
func WriteByteData(fd int, reg, value byte) error {
	data := smbusData{value}
	return smbusAccess(fd, &smbusIoctlData{readWrite: smbusWrite, command: reg, size: sizeByteData, data: &data})
}

// ReadWordData reads the word at register reg
func ReadWordData(fd int, reg byte) (uint16, error) {
	var data smbusData
	err := smbusAccess(fd, &smbusIoctlData{readWrite: smbusRead, command: reg, size: sizeWordData, data: &data})
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(data[:2]), nil
}

// WriteWordData writes value at register reg
func WriteWordData(fd int, reg byte, value uint16) error {
	var data smbusData
	binary.NativeEndian.PutUint16(data[:2], value)
	return smbusAccess(fd, &smbusIoctlData{readWrite: smbusWrite, command: reg, size: sizeWordData, data: &data})
}

// ReadI2CBlock fills buf from consecutive registers starting at reg
func ReadI2CBlock(fd int, reg byte, buf []byte) error {
	if err := smbus.ValidateBlock(len(buf)); err != nil {
		return err
	}
	var data smbusData
	data[0] = byte(len(buf))
	err := smbusAccess(fd, &smbusIoctlData{readWrite: smbusRead, command: reg, size: sizeI2CBlockData, data: &data})
	if err != nil {
		return err
	}
	copy(buf, data[1:1+int(data[0])])
	return nil
}

// WriteI2CBlock writes data to consecutive registers starting at reg
func WriteI2CBlock(fd int, reg byte, payload []byte) error {
	if err := smbus.ValidateBlock(len(payload)); err != nil {
		return err
	}
	var data smbusData
	data[0] = byte(len(payload))
	copy(data[1:], payload)
	return smbusAccess(fd, &smbusIoctlData{readWrite: smbusWrite, command: reg, size: sizeI2CBlockData, data: &data})
}
