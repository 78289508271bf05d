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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sysfsRoot is where the kernel publishes adapter names
var sysfsRoot = "/sys/class/i2c-dev"

// devGlob matches i2c-dev nodes
var devGlob = "/dev/i2c-*"

// Info describes one i2c-dev node
type Info struct {
	Path   string // Device path, e.g., "/dev/i2c-1"
	Name   string // Adapter name from sysfs, may be empty
	Number int    // Bus number
}

// List returns the i2c-dev nodes present on the system, ordered by number
func List() ([]Info, error) {
	matches, err := filepath.Glob(devGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for I2C buses: %w", err)
	}

	buses := make([]Info, 0, len(matches))
	for _, path := range matches {
		var n int
		if _, err := fmt.Sscanf(filepath.Base(path), "i2c-%d", &n); err != nil {
			continue
		}
		buses = append(buses, Info{
			Path:   path,
			Number: n,
			Name:   adapterName(filepath.Base(path)),
		})
	}

	sort.Slice(buses, func(i, j int) bool { return buses[i].Number < buses[j].Number })
	return buses, nil
}

func adapterName(node string) string {
	raw, err := os.ReadFile(filepath.Join(sysfsRoot, node, "name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
