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
	"errors"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithWordOrder sets how ReadWord and WriteWord map the two register bytes.
// SMBus word transactions put the low byte at reg; use binary.BigEndian for
// chips that store the high byte first.
func WithWordOrder(order binary.ByteOrder) Option {
	return func(d *Device) error {
		if order != binary.LittleEndian && order != binary.BigEndian {
			return errors.New("word order must be binary.LittleEndian or binary.BigEndian")
		}
		d.wordOrder = order
		return nil
	}
}

// WithBigEndianWords is shorthand for WithWordOrder(binary.BigEndian)
func WithBigEndianWords() Option {
	return WithWordOrder(binary.BigEndian)
}
