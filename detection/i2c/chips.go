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

package i2c

import (
	smbus "github.com/ZaparooProject/go-smbus"
)

// Chip describes a part that can be confirmed through an identification
// register.
type Chip struct {
	Name      string
	Addresses []uint16
	IDReg     byte
	IDMask    byte
	IDValue   byte
}

// KnownChips are checked in order; parts sharing an address are listed
// with the most specific identification first.
var KnownChips = []Chip{
	{Name: "MPU-9250", Addresses: []uint16{0x68, 0x69}, IDReg: 0x75, IDMask: 0xFF, IDValue: 0x71},
	{Name: "MPU-6050", Addresses: []uint16{0x68, 0x69}, IDReg: 0x75, IDMask: 0x7E, IDValue: 0x68},
	{Name: "ITG-3200", Addresses: []uint16{0x68, 0x69}, IDReg: 0x00, IDMask: 0x7E, IDValue: 0x68},
	{Name: "ADXL345", Addresses: []uint16{0x1D, 0x53}, IDReg: 0x00, IDMask: 0xFF, IDValue: 0xE5},
	{Name: "HMC5883L", Addresses: []uint16{0x1E}, IDReg: 0x0A, IDMask: 0xFF, IDValue: 'H'},
	{Name: "BMP085/BMP180", Addresses: []uint16{0x77}, IDReg: 0xD0, IDMask: 0xFF, IDValue: 0x55},
}

// candidates returns the known chips that may live at addr
func candidates(addr uint16) []Chip {
	var out []Chip
	for _, chip := range KnownChips {
		for _, a := range chip.Addresses {
			if a == addr {
				out = append(out, chip)
				break
			}
		}
	}
	return out
}

// Identify reads identification registers to confirm which known chip is
// at addr. It returns false when nothing matches or the reads fail.
func Identify(bus smbus.Bus, addr uint16) (Chip, bool) {
	for _, chip := range candidates(addr) {
		id, err := bus.ReadByteData(addr, chip.IDReg)
		if err != nil {
			continue
		}
		if id&chip.IDMask == chip.IDValue {
			return chip, true
		}
	}
	return Chip{}, false
}
