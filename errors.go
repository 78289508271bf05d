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
	"errors"
	"fmt"
)

// Sentinel errors. Errors returned by bus implementations match one of the
// classification sentinels with errors.Is, in addition to the raw errno.
var (
	// ErrNoDevice means no device acknowledged the address (ENXIO, EREMOTEIO).
	ErrNoDevice = errors.New("no device at address")
	// ErrBusIO is a generic bus or adapter I/O failure.
	ErrBusIO = errors.New("bus I/O error")
	// ErrBusBusy means the address is claimed by a kernel driver or the
	// adapter is busy.
	ErrBusBusy = errors.New("bus busy")
	// ErrTimeout means the adapter timed out waiting for the transfer.
	ErrTimeout = errors.New("bus timeout")
	// ErrBadDescriptor means the bus handle does not refer to an open device.
	ErrBadDescriptor = errors.New("invalid bus descriptor")
	// ErrUnsupported means the adapter does not implement the transaction.
	ErrUnsupported = errors.New("transaction not supported by adapter")
	// ErrBusClosed is returned for any call made after Close.
	ErrBusClosed = errors.New("bus closed")

	ErrInvalidAddress      = errors.New("invalid I2C address")
	ErrDataTooLarge        = errors.New("data exceeds I2C block size")
	ErrUnsupportedPlatform = errors.New("platform not supported")
)

// ErrorKind classifies a bus failure
type ErrorKind int

const (
	// KindIO is an unclassified I/O failure
	KindIO ErrorKind = iota
	// KindNoDevice means nothing answered at the address
	KindNoDevice
	// KindBusy means the bus or address is in use
	KindBusy
	// KindTimeout means the transfer timed out
	KindTimeout
	// KindBadDescriptor means the handle is not usable
	KindBadDescriptor
	// KindUnsupported means the adapter lacks the functionality
	KindUnsupported
	// KindClosed means the bus was closed
	KindClosed
	// KindInvalid means an argument was rejected before reaching the bus
	KindInvalid
)

var kindSentinels = map[ErrorKind]error{
	KindIO:            ErrBusIO,
	KindNoDevice:      ErrNoDevice,
	KindBusy:          ErrBusBusy,
	KindTimeout:       ErrTimeout,
	KindBadDescriptor: ErrBadDescriptor,
	KindUnsupported:   ErrUnsupported,
	KindClosed:        ErrBusClosed,
}

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNoDevice:
		return "no-device"
	case KindBusy:
		return "busy"
	case KindTimeout:
		return "timeout"
	case KindBadDescriptor:
		return "bad-descriptor"
	case KindUnsupported:
		return "unsupported"
	case KindClosed:
		return "closed"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// BusError describes a failed SMBus transaction. Err holds the underlying
// cause exactly as the backend reported it (for the kernel backend, the
// errno).
type BusError struct {
	Err  error
	Op   string
	Bus  string
	Kind ErrorKind
	Addr uint16
}

// NewBusError creates a new bus error
func NewBusError(op, bus string, addr uint16, kind ErrorKind, err error) *BusError {
	return &BusError{Op: op, Bus: bus, Addr: addr, Kind: kind, Err: err}
}

func (e *BusError) Error() string {
	if e.Bus == "" {
		return fmt.Sprintf("smbus %s 0x%02X: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("smbus %s %s 0x%02X: %v", e.Op, e.Bus, e.Addr, e.Err)
}

// Unwrap exposes both the cause and the classification sentinel so that
// errors.Is works against either.
func (e *BusError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if sentinel, ok := kindSentinels[e.Kind]; ok && sentinel != e.Err {
		errs = append(errs, sentinel)
	}
	return errs
}

// KindOf returns the classification of err. Errors that are not bus errors
// and do not wrap a known sentinel report KindIO.
func KindOf(err error) ErrorKind {
	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	if errors.Is(err, ErrInvalidAddress) || errors.Is(err, ErrDataTooLarge) {
		return KindInvalid
	}
	return KindIO
}

// IsNoDevice reports whether err means nothing answered at the address.
// Scanners use it to tell an empty slot from a broken bus.
func IsNoDevice(err error) bool {
	return errors.Is(err, ErrNoDevice)
}
