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
	"context"

	smbus "github.com/ZaparooProject/go-smbus"
)

// ScanResult is one address that answered
type ScanResult struct {
	Addr uint16
	// Busy means a kernel driver owns the address; the device is present
	// but was not accessed.
	Busy bool
}

// useReadByte reports whether addr falls in a range where a quick write
// can corrupt some EEPROMs (AT24RF08), as i2cdetect's auto mode does.
func useReadByte(addr uint16) bool {
	return (addr >= 0x30 && addr <= 0x37) || (addr >= 0x50 && addr <= 0x5F)
}

// ScanBus checks every address in first..last and returns those that
// acknowledged. Quick writes are used where the bus supports them, read
// byte otherwise.
func ScanBus(ctx context.Context, bus smbus.Bus, first, last uint16) ([]ScanResult, error) {
	if err := smbus.ValidateAddress(last); err != nil {
		return nil, err
	}

	funcs, err := bus.Functionality()
	if err != nil {
		return nil, err
	}
	quick, hasQuick := bus.(smbus.QuickWriter)
	hasQuick = hasQuick && funcs.Has(smbus.FuncSMBusQuick)
	hasReadByte := funcs.Has(smbus.FuncSMBusReadByte)

	if !hasQuick && !hasReadByte {
		return nil, smbus.NewBusError("scan", "", 0, smbus.KindUnsupported, smbus.ErrUnsupported)
	}

	var found []ScanResult
	for addr := first; addr <= last; addr++ {
		select {
		case <-ctx.Done():
			return found, ctx.Err()
		default:
		}

		var scanErr error
		switch {
		case hasQuick && !(useReadByte(addr) && hasReadByte):
			scanErr = quick.WriteQuick(addr, 0)
		case hasReadByte:
			_, scanErr = bus.ReadByte(addr)
		default:
			continue
		}

		switch {
		case scanErr == nil:
			found = append(found, ScanResult{Addr: addr})
		case smbus.KindOf(scanErr) == smbus.KindBusy:
			found = append(found, ScanResult{Addr: addr, Busy: true})
		default:
			smbus.Debugf("scan 0x%02X: %v", addr, scanErr)
		}
	}
	return found, nil
}
