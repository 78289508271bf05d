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
	"fmt"

	smbus "github.com/ZaparooProject/go-smbus"
	"github.com/ZaparooProject/go-smbus/detection"
	"github.com/ZaparooProject/go-smbus/transport/i2cdev"
)

// busOpener opens the bus at an i2c-dev path
type busOpener func(path string) (smbus.Bus, error)

// detectBuses scans each bus in order. Devices found on a bus are kept even
// when its scan was cut short; a deadline stops the walk and returns what
// was found with ErrDetectionTimeout.
func detectBuses(
	ctx context.Context, buses []i2cdev.Info, open busOpener, opts *detection.Options,
) ([]detection.DeviceInfo, error) {
	if len(buses) == 0 {
		return nil, detection.ErrNoDevicesFound
	}

	var devices []detection.DeviceInfo

	for _, info := range buses {
		if ctx.Err() != nil {
			return devices, detection.ErrDetectionTimeout
		}

		if detection.IsPathIgnored(info.Path, opts.IgnorePaths) {
			continue
		}

		if opts.Mode == detection.Passive {
			devices = append(devices, busDeviceInfo(info))
			continue
		}

		busDevices, err := scanOne(ctx, info, open, opts)
		devices = append(devices, busDevices...)
		if err != nil {
			if ctx.Err() != nil {
				return devices, detection.ErrDetectionTimeout
			}
			smbus.Debugf("skipping %s: %v", info.Path, err)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}

	return devices, nil
}

func scanOne(
	ctx context.Context, info i2cdev.Info, open busOpener, opts *detection.Options,
) ([]detection.DeviceInfo, error) {
	bus, err := open(info.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = bus.Close() }()

	return describeBus(ctx, info.Path, bus, opts)
}

func busDeviceInfo(info i2cdev.Info) detection.DeviceInfo {
	name := info.Name
	if name == "" {
		name = fmt.Sprintf("I2C bus %d", info.Number)
	}
	return detection.DeviceInfo{
		Transport:  "i2c",
		Path:       info.Path,
		Bus:        info.Path,
		Name:       name,
		Confidence: detection.Low,
		Metadata: map[string]string{
			"bus":    info.Path,
			"number": fmt.Sprintf("%d", info.Number),
		},
	}
}
