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

// Register is a lightweight handle on one register of a Device
type Register struct {
	Device *Device
	Addr   byte
}

// Read reads the register
func (r *Register) Read() (byte, error) {
	return r.Device.ReadRegister(r.Addr)
}

// Write writes the register
func (r *Register) Write(value byte) error {
	return r.Device.WriteRegister(r.Addr, value)
}

// SetBits sets the bits in mask
func (r *Register) SetBits(mask byte) error {
	return r.Device.UpdateRegister(r.Addr, mask, mask)
}

// ClearBits clears the bits in mask
func (r *Register) ClearBits(mask byte) error {
	return r.Device.UpdateRegister(r.Addr, mask, 0)
}
