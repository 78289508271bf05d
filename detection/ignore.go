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

package detection

import (
	"path/filepath"
	"strings"
)

// IsPathIgnored reports whether a device path appears in ignorePaths.
// Paths compare case-insensitively after cleaning. An entry naming a bus
// ("/dev/i2c-1") also matches every device on it ("/dev/i2c-1:0x68").
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	device := normalizedPath(devicePath)
	bus, _, hasAddr := strings.Cut(device, ":")

	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}

		ignored := normalizedPath(ignorePath)
		if device == ignored || devicePath == ignorePath {
			return true
		}
		if hasAddr && !strings.Contains(ignored, ":") && bus == ignored {
			return true
		}
	}
	return false
}

// normalizedPath cleans a path and lowercases it, which also folds the
// hex case of an address suffix.
func normalizedPath(path string) string {
	bus, addr, ok := strings.Cut(path, ":")
	cleaned := filepath.Clean(bus)
	if ok {
		cleaned += ":" + normalizeAddr(addr)
	}
	return strings.ToLower(cleaned)
}

// normalizeAddr strips leading zeros so "0x8" and "0x08" compare equal
func normalizeAddr(addr string) string {
	lower := strings.ToLower(strings.TrimSpace(addr))
	digits := strings.TrimPrefix(lower, "0x")
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return "0x" + digits
}
