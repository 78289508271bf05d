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
)

// describeBus scans one bus and turns every answering address into a
// DeviceInfo, skipping ignored paths.
func describeBus(
	ctx context.Context, busPath string, bus smbus.Bus, opts *detection.Options,
) ([]detection.DeviceInfo, error) {
	results, err := ScanBus(ctx, bus, opts.First, opts.Last)
	if err != nil && len(results) == 0 {
		return nil, err
	}

	devices := make([]detection.DeviceInfo, 0, len(results))
	for _, result := range results {
		device, skip := createDeviceInfo(busPath, bus, result, opts)
		if skip {
			continue
		}
		devices = append(devices, device)
	}
	return devices, err
}

// createDeviceInfo creates a DeviceInfo for a single address
func createDeviceInfo(
	busPath string, bus smbus.Bus, result ScanResult, opts *detection.Options,
) (detection.DeviceInfo, bool) {
	addr := fmt.Sprintf("0x%02X", result.Addr)
	devicePath := busPath + ":" + addr

	if detection.IsPathIgnored(devicePath, opts.IgnorePaths) {
		return detection.DeviceInfo{}, true
	}

	device := detection.DeviceInfo{
		Transport:  "i2c",
		Path:       devicePath,
		Bus:        busPath,
		Address:    result.Addr,
		Name:       fmt.Sprintf("I2C device at %s address %s", busPath, addr),
		Confidence: detection.Low,
		Metadata: map[string]string{
			"bus":     busPath,
			"address": addr,
		},
	}

	if result.Busy {
		device.Metadata["status"] = "busy"
		return device, false
	}

	known := candidates(result.Addr)
	if len(known) > 0 {
		device.Confidence = detection.Medium
		device.Name = known[0].Name
		if len(known) > 1 {
			device.Metadata["candidates"] = chipNames(known)
		}
	}

	if opts.Mode == detection.Active && len(known) > 0 {
		if chip, ok := Identify(bus, result.Addr); ok {
			device.Confidence = detection.High
			device.Name = chip.Name
			device.Metadata["chip"] = chip.Name
			delete(device.Metadata, "candidates")
		}
	}

	return device, false
}

func chipNames(chips []Chip) string {
	names := ""
	for i, chip := range chips {
		if i > 0 {
			names += ","
		}
		names += chip.Name
	}
	return names
}
