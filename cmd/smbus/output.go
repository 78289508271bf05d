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

package main

import (
	"fmt"
	"io"
	"sort"

	smbus "github.com/ZaparooProject/go-smbus"
	"github.com/ZaparooProject/go-smbus/detection"
	i2cdetect "github.com/ZaparooProject/go-smbus/detection/i2c"
)

// Output handles consistent formatting of messages
type Output struct {
	w       io.Writer
	verbose bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, verbose bool) *Output {
	return &Output{w: w, verbose: verbose}
}

// Error prints an error message
func (o *Output) Error(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, "ERROR: "+format+"\n", args...)
}

// Info prints an info message
func (o *Output) Info(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, "INFO: "+format+"\n", args...)
}

// Verbose prints only if verbose mode is enabled
func (o *Output) Verbose(format string, args ...any) {
	if o.verbose {
		_, _ = fmt.Fprintf(o.w, format+"\n", args...)
	}
}

// Value prints a read result in hex, the way i2cget does
func (o *Output) Value(value uint16, word bool) {
	if word {
		_, _ = fmt.Fprintf(o.w, "0x%04x\n", value)
		return
	}
	_, _ = fmt.Fprintf(o.w, "0x%02x\n", value)
}

// Devices prints detected devices
func (o *Output) Devices(devices []detection.DeviceInfo) {
	for _, d := range devices {
		_, _ = fmt.Fprintf(o.w, "%-20s %-16s %s\n", d.Path, d.Name, d.Confidence)
		keys := make([]string, 0, len(d.Metadata))
		for k := range d.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.Verbose("    %s=%s", k, d.Metadata[k])
		}
	}
}

// ScanGrid prints scan results as the familiar 16-column address map.
// Present addresses print as hex, driver-owned ones as UU, unscanned as
// blanks.
func (o *Output) ScanGrid(results []i2cdetect.ScanResult, first, last uint16) {
	state := make(map[uint16]string, len(results))
	for _, p := range results {
		if p.Busy {
			state[p.Addr] = "UU"
		} else {
			state[p.Addr] = fmt.Sprintf("%02x", p.Addr)
		}
	}

	_, _ = fmt.Fprint(o.w, "     0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f\n")
	for row := uint16(0); row < 0x80; row += 16 {
		_, _ = fmt.Fprintf(o.w, "%02x:", row)
		for col := uint16(0); col < 16; col++ {
			addr := row + col
			cell := "  "
			if addr >= first && addr <= last {
				cell = "--"
				if s, ok := state[addr]; ok {
					cell = s
				}
			}
			_, _ = fmt.Fprint(o.w, " "+cell)
		}
		_, _ = fmt.Fprint(o.w, "\n")
	}
}

// Dump prints 256 registers as a 16x16 grid; failed reads print XX
func (o *Output) Dump(regs [256]byte, failed [256]bool) {
	_, _ = fmt.Fprint(o.w, "     0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f\n")
	for row := 0; row < 256; row += 16 {
		_, _ = fmt.Fprintf(o.w, "%02x:", row)
		for col := 0; col < 16; col++ {
			if failed[row+col] {
				_, _ = fmt.Fprint(o.w, " XX")
				continue
			}
			_, _ = fmt.Fprintf(o.w, " %02x", regs[row+col])
		}
		_, _ = fmt.Fprint(o.w, "\n")
	}
}

// Funcs prints one line per functionality bit
func (o *Output) Funcs(funcs smbus.Funcs) {
	for _, f := range []struct {
		name string
		bit  smbus.Funcs
	}{
		{"I2C", smbus.FuncI2C},
		{"SMBus Quick Command", smbus.FuncSMBusQuick},
		{"SMBus Send Byte", smbus.FuncSMBusWriteByte},
		{"SMBus Receive Byte", smbus.FuncSMBusReadByte},
		{"SMBus Write Byte", smbus.FuncSMBusWriteByteData},
		{"SMBus Read Byte", smbus.FuncSMBusReadByteData},
		{"SMBus Write Word", smbus.FuncSMBusWriteWordData},
		{"SMBus Read Word", smbus.FuncSMBusReadWordData},
		{"SMBus Process Call", smbus.FuncSMBusProcCall},
		{"SMBus Block Write", smbus.FuncSMBusWriteBlockData},
		{"SMBus Block Read", smbus.FuncSMBusReadBlockData},
		{"SMBus PEC", smbus.FuncSMBusPEC},
		{"I2C Block Write", smbus.FuncSMBusWriteI2CBlock},
		{"I2C Block Read", smbus.FuncSMBusReadI2CBlock},
	} {
		yes := "no"
		if funcs.Has(f.bit) {
			yes = "yes"
		}
		_, _ = fmt.Fprintf(o.w, "%-32s %s\n", f.name, yes)
	}
}
