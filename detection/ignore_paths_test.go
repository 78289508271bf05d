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
	"testing"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := getPathIgnoredTests()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsPathIgnored(tt.devicePath, tt.ignorePaths)
			if result != tt.expected {
				t.Errorf("IsPathIgnored(%q, %v) = %v, want %v",
					tt.devicePath, tt.ignorePaths, result, tt.expected)
			}
		})
	}
}

type pathIgnoredTest struct {
	name        string
	devicePath  string
	ignorePaths []string
	expected    bool
}

//nolint:funlen // Test data function, acceptable to be longer
func getPathIgnoredTests() []pathIgnoredTest {
	basicTests := []pathIgnoredTest{
		{
			name:        "empty ignore list",
			devicePath:  "/dev/i2c-1:0x68",
			ignorePaths: []string{},
			expected:    false,
		},
		{
			name:        "empty device path",
			devicePath:  "",
			ignorePaths: []string{"/dev/i2c-1:0x68"},
			expected:    false,
		},
		{
			name:        "exact device match",
			devicePath:  "/dev/i2c-1:0x68",
			ignorePaths: []string{"/dev/i2c-1:0x68"},
			expected:    true,
		},
		{
			name:        "exact bus match",
			devicePath:  "/dev/i2c-1",
			ignorePaths: []string{"/dev/i2c-1"},
			expected:    true,
		},
	}

	normalizeTests := []pathIgnoredTest{
		{
			name:        "address hex case",
			devicePath:  "/dev/i2c-1:0x1e",
			ignorePaths: []string{"/dev/i2c-1:0x1E"},
			expected:    true,
		},
		{
			name:        "address leading zero",
			devicePath:  "/dev/i2c-1:0x08",
			ignorePaths: []string{"/dev/i2c-1:0x8"},
			expected:    true,
		},
		{
			name:        "path with relative components",
			devicePath:  "/dev/../dev/i2c-1:0x68",
			ignorePaths: []string{"/dev/i2c-1:0x68"},
			expected:    true,
		},
	}

	busTests := []pathIgnoredTest{
		{
			name:        "bus entry covers its devices",
			devicePath:  "/dev/i2c-1:0x53",
			ignorePaths: []string{"/dev/i2c-1"},
			expected:    true,
		},
		{
			name:        "bus entry does not cover other buses",
			devicePath:  "/dev/i2c-10:0x53",
			ignorePaths: []string{"/dev/i2c-1"},
			expected:    false,
		},
		{
			name:        "device entry does not cover its bus",
			devicePath:  "/dev/i2c-1",
			ignorePaths: []string{"/dev/i2c-1:0x53"},
			expected:    false,
		},
	}

	multipleTests := []pathIgnoredTest{
		{
			name:        "different address",
			devicePath:  "/dev/i2c-1:0x69",
			ignorePaths: []string{"/dev/i2c-1:0x68"},
			expected:    false,
		},
		{
			name:        "multiple paths with match",
			devicePath:  "/dev/i2c-2:0x77",
			ignorePaths: []string{"/dev/i2c-1:0x68", "/dev/i2c-2:0x77"},
			expected:    true,
		},
		{
			name:        "empty strings in ignore list",
			devicePath:  "/dev/i2c-1:0x68",
			ignorePaths: []string{"", "/dev/i2c-1:0x68", ""},
			expected:    true,
		},
	}

	result := make([]pathIgnoredTest, 0, len(basicTests)+len(normalizeTests)+len(busTests)+len(multipleTests))
	result = append(result, basicTests...)
	result = append(result, normalizeTests...)
	result = append(result, busTests...)
	result = append(result, multipleTests...)
	return result
}

func TestOptionsWithIgnorePaths(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if opts.IgnorePaths != nil {
		t.Errorf("DefaultOptions().IgnorePaths should be nil, got %v", opts.IgnorePaths)
	}
	if opts.First != 0x08 || opts.Last != 0x77 {
		t.Errorf("DefaultOptions() range = 0x%02X..0x%02X, want 0x08..0x77", opts.First, opts.Last)
	}
}
