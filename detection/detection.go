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

// Package detection discovers SMBus adapters and the devices that answer
// on them.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no devices found")
	ErrDetectionTimeout    = errors.New("detection timed out")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
)

// Mode controls how intrusive detection is
type Mode int

const (
	// Passive lists adapters without sending anything on the bus
	Passive Mode = iota
	// Safe checks each address for an acknowledge only
	Safe
	// Active also reads identification registers of known chips
	Active
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case Passive:
		return "passive"
	case Safe:
		return "safe"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch s {
	case "passive":
		return Passive, nil
	case "safe", "":
		return Safe, nil
	case "active":
		return Active, nil
	default:
		return Safe, fmt.Errorf("unknown detection mode %q", s)
	}
}

// Confidence is how sure a detector is about a device identification
type Confidence int

const (
	// Low means something acknowledged the address
	Low Confidence = iota
	// Medium means the address matches a known chip
	Medium
	// High means an identification register confirmed the chip
	High
)

// String returns the confidence name
func (c Confidence) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("confidence(%d)", int(c))
	}
}

// DeviceInfo describes a detected device
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string
	Path       string // bus path and address, e.g. "/dev/i2c-1:0x68"
	Name       string
	Bus        string
	Confidence Confidence
	Address    uint16
}

// Options configures detection
type Options struct {
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
	First       uint16 // first address to scan
	Last        uint16 // last address to scan
}

// DefaultOptions returns options that scan the usual 7-bit range
// (0x08..0x77) in Safe mode.
func DefaultOptions() Options {
	return Options{
		Mode:    Safe,
		Timeout: 5 * time.Second,
		First:   0x08,
		Last:    0x77,
	}
}

// Detector finds devices for one transport
type Detector interface {
	// Transport returns the transport name, e.g. "i2c"
	Transport() string
	// Detect finds devices
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Detector)
)

// RegisterDetector makes a detector available to DetectAll. Registering a
// second detector for the same transport replaces the first.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors ordered by transport name
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()
	detectors := make([]Detector, 0, len(registry))
	for _, d := range registry {
		detectors = append(detectors, d)
	}
	sort.Slice(detectors, func(i, j int) bool {
		return detectors[i].Transport() < detectors[j].Transport()
	})
	return detectors
}

// DetectAll runs every registered detector. Detector failures other than
// ErrNoDevicesFound and ErrUnsupportedPlatform are joined into the
// returned error alongside any devices found.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var (
		devices []DeviceInfo
		errs    []error
	)
	for _, d := range Detectors() {
		found, err := d.Detect(ctx, opts)
		devices = append(devices, found...)
		if err != nil && !errors.Is(err, ErrNoDevicesFound) && !errors.Is(err, ErrUnsupportedPlatform) {
			errs = append(errs, fmt.Errorf("%s detection: %w", d.Transport(), err))
		}
	}

	if len(devices) == 0 && len(errs) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, errors.Join(errs...)
}
