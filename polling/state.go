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

package polling

import (
	"time"
)

// DetectionState is the presence state machine for a watched device
type DetectionState int

const (
	// StateAbsent means the device has not answered since the last detach
	StateAbsent DetectionState = iota
	// StatePresent means the last poll succeeded
	StatePresent
	// StateMissing means recent polls failed but fewer than the removal
	// threshold
	StateMissing
)

// String returns the state name
func (s DetectionState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	case StateMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// DeviceState tracks what the monitor last saw at its address
type DeviceState struct {
	LastSeenTime   time.Time
	LastValue      byte
	Misses         int
	DetectionState DetectionState
	Present        bool
}

// TransitionToPresent records a successful poll. It reports whether the
// device was absent before.
func (ds *DeviceState) TransitionToPresent(value byte) (attached bool) {
	attached = !ds.Present
	ds.DetectionState = StatePresent
	ds.Present = true
	ds.LastValue = value
	ds.LastSeenTime = time.Now()
	ds.Misses = 0
	return attached
}

// RecordMiss records a failed poll. It reports whether the miss count
// reached maxMisses, in which case the state is reset to absent.
func (ds *DeviceState) RecordMiss(maxMisses int) (detached bool) {
	if !ds.Present {
		return false
	}
	ds.Misses++
	if ds.Misses < maxMisses {
		ds.DetectionState = StateMissing
		return false
	}
	ds.TransitionToAbsent()
	return true
}

// TransitionToAbsent resets to the absent state
func (ds *DeviceState) TransitionToAbsent() {
	ds.DetectionState = StateAbsent
	ds.Present = false
	ds.LastValue = 0
	ds.Misses = 0
	ds.LastSeenTime = time.Time{}
}
