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

/*
Package smbus provides a small, typed Go interface for SMBus transactions on
Linux I2C adapters.

Each operation maps to exactly one kernel SMBus transaction: a byte read or
write at the device's register pointer, a byte read or write at an explicit
register, word reads and writes, and I2C block transfers. There are no
retries and no caching; errors are the ones the adapter reported, wrapped
so they can be matched with errors.Is against both the classification
sentinels in this package and the original errno.

Features:
  - Kernel i2c-dev backend built on golang.org/x/sys/unix
  - periph.io backend for boards with periph bus drivers
  - Bus and device discovery in the style of i2cdetect
  - Drivers for the ITG-3200 gyroscope and ADXL345 accelerometer
  - An in-memory MockBus for driver tests

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-smbus"
	    "github.com/ZaparooProject/go-smbus/transport/i2cdev"
	)

	bus, err := i2cdev.OpenBus(1)
	if err != nil {
	    log.Fatal(err)
	}
	defer bus.Close()

	dev, err := smbus.NewDevice(bus, 0x68)
	if err != nil {
	    log.Fatal(err)
	}

	id, err := dev.ReadRegister(0x00)
	if err != nil {
	    log.Fatal(err)
	}

	if err := dev.WriteRegister(0x3E, 0x00); err != nil {
	    log.Fatal(err)
	}

Caller-owned descriptors:

When another part of the program already holds the /dev/i2c-N file, wrap it
without taking ownership. Close on the returned bus does not close the file.

	bus := i2cdev.NewFromFile(f)

Error Handling:

	value, err := dev.ReadRegister(0x00)
	switch {
	case smbus.IsNoDevice(err):
	    // nothing acknowledged the address
	case errors.Is(err, unix.EIO):
	    // the raw errno is still there
	}

Concurrency:

The i2c-dev backend serializes the slave address selection with the
transaction it belongs to, so single calls from several goroutines are
safe. Multi-step sequences such as Device.UpdateRegister are not atomic;
callers that share a device across goroutines must lock around them.
*/
package smbus
