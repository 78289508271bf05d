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
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openCall struct {
	backend string
	bus     int
}

// mockOpener returns bus for every open and records what was asked for
func mockOpener(bus *smbus.MockBus, calls *[]openCall) opener {
	return func(backend string, n int) (smbus.Bus, error) {
		*calls = append(*calls, openCall{backend: backend, bus: n})
		return bus, nil
	}
}

func runWith(t *testing.T, bus *smbus.MockBus, environ map[string]string, args ...string) (string, int, []openCall) {
	t.Helper()
	var (
		out   bytes.Buffer
		calls []openCall
	)
	if environ == nil {
		environ = map[string]string{}
	}
	code := run(context.Background(), args, &out, environ, mockOpener(bus, &calls))
	return out.String(), code, calls
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	out, code, _ := runWith(t, smbus.NewMockBus(), nil)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "usage: smbus")

	out, code, _ = runWith(t, smbus.NewMockBus(), nil, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, `unknown command "frobnicate"`)
}

func TestRun_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
		args []string
	}{
		{name: "register", args: []string{"get", "-addr", "0x68", "-reg", "0x00"}, want: "0x69\n"},
		{name: "decimal address", args: []string{"get", "-addr", "104", "-reg", "1"}, want: "0x12\n"},
		{name: "word", args: []string{"get", "-addr", "0x68", "-reg", "0x01", "-word"}, want: "0x3412\n"},
		{name: "pointer", args: []string{"get", "-addr", "0x68"}, want: "0x69\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bus := smbus.NewMockBus()
			bus.SetRegister(0x68, 0x00, 0x69)
			bus.SetRegister(0x68, 0x01, 0x12)
			bus.SetRegister(0x68, 0x02, 0x34)

			out, code, calls := runWith(t, bus, nil, tt.args...)
			require.Equal(t, 0, code, out)
			assert.Equal(t, tt.want, out)
			require.Len(t, calls, 1)
			assert.Equal(t, openCall{backend: backendI2CDev, bus: 1}, calls[0])
		})
	}
}

func TestRun_GetErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantOut string
		args    []string
		code    int
	}{
		{name: "missing address", args: []string{"get", "-reg", "0"}, code: 1, wantOut: "-addr or -device is required"},
		{name: "address out of range", args: []string{"get", "-addr", "0x80"}, code: 2, wantOut: "out of range"},
		{name: "not a number", args: []string{"get", "-addr", "zz"}, code: 2, wantOut: "not a number"},
		{name: "word without register", args: []string{"get", "-addr", "0x68", "-word"}, code: 1, wantOut: "-word needs -reg"},
		{name: "no device", args: []string{"get", "-addr", "0x10", "-reg", "0"}, code: 1, wantOut: "no device at address"},
		{name: "unknown named device", args: []string{"get", "-device", "gyro"}, code: 1, wantOut: `unknown device "gyro"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bus := smbus.NewMockBus()
			bus.AddDevice(0x68)

			out, code, _ := runWith(t, bus, nil, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestRun_Set(t *testing.T) {
	t.Parallel()

	t.Run("register", func(t *testing.T) {
		t.Parallel()
		bus := smbus.NewMockBus()
		bus.AddDevice(0x53)

		out, code, _ := runWith(t, bus, nil, "set", "-addr", "0x53", "-reg", "0x2D", "-value", "0x08", "-yes")
		require.Equal(t, 0, code, out)
		assert.Equal(t, byte(0x08), bus.Register(0x53, 0x2D))
	})

	t.Run("word", func(t *testing.T) {
		t.Parallel()
		bus := smbus.NewMockBus()
		bus.AddDevice(0x53)

		out, code, _ := runWith(t, bus, nil, "set", "-addr", "0x53", "-reg", "0x10", "-value", "0xBEEF", "-word", "-yes")
		require.Equal(t, 0, code, out)
		assert.Equal(t, byte(0xEF), bus.Register(0x53, 0x10))
		assert.Equal(t, byte(0xBE), bus.Register(0x53, 0x11))
	})

	t.Run("byte", func(t *testing.T) {
		t.Parallel()
		bus := smbus.NewMockBus()
		bus.AddDevice(0x53)

		out, code, _ := runWith(t, bus, nil, "set", "-addr", "0x53", "-value", "0x32", "-yes")
		require.Equal(t, 0, code, out)
		assert.Equal(t, 1, bus.CallCount(smbus.OpWriteByte))
	})

	t.Run("refuses without confirmation", func(t *testing.T) {
		t.Parallel()
		bus := smbus.NewMockBus()
		bus.AddDevice(0x53)

		out, code, calls := runWith(t, bus, nil, "set", "-addr", "0x53", "-reg", "0x2D", "-value", "0x08")
		assert.Equal(t, 1, code)
		assert.Contains(t, out, "refusing to write without -yes")
		assert.Empty(t, calls)
		assert.Equal(t, 0, bus.CallCount(smbus.OpWriteByteData))
	})

	t.Run("value too large for a byte", func(t *testing.T) {
		t.Parallel()
		bus := smbus.NewMockBus()

		out, code, _ := runWith(t, bus, nil, "set", "-addr", "0x53", "-reg", "0", "-value", "0x100", "-yes")
		assert.Equal(t, 1, code)
		assert.Contains(t, out, "does not fit in a byte")
	})
}

func TestRun_Dump(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	for reg := 0; reg < 256; reg++ {
		bus.SetRegister(0x50, byte(reg), byte(reg))
	}

	out, code, _ := runWith(t, bus, nil, "dump", "-addr", "0x50")
	require.Equal(t, 0, code, out)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 17)
	assert.Equal(t, "00: 00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f", lines[1])
	assert.Equal(t, "f0: f0 f1 f2 f3 f4 f5 f6 f7 f8 f9 fa fb fc fd fe ff", lines[16])
	assert.Equal(t, 256, bus.CallCount(smbus.OpReadByteData))
}

func TestRun_DumpFailedReads(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	bus.AddDevice(0x50)
	bus.SetError(smbus.OpReadByteData, smbus.ErrBusIO)

	out, code, _ := runWith(t, bus, nil, "dump", "-addr", "0x50")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "00: XX XX XX XX")
}

func TestRun_DumpMissingDevice(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	out, code, _ := runWith(t, bus, nil, "dump", "-addr", "0x50")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "no device at address")
	assert.Equal(t, 1, bus.CallCount(smbus.OpReadByteData))
}

func TestRun_Scan(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	bus.AddDevice(0x1D)
	bus.AddDevice(0x68)

	out, code, _ := runWith(t, bus, map[string]string{"SMBUS_BUS": "2"}, "scan")
	require.Equal(t, 0, code, out)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "00:                         -- -- -- -- -- -- -- --", lines[1])
	assert.Equal(t, "10: -- -- -- -- -- -- -- -- -- -- -- -- -- 1d -- --", lines[2])
	assert.Equal(t, "60: -- -- -- -- -- -- -- -- 68 -- -- -- -- -- -- --", lines[7])
	assert.Equal(t, "70: -- -- -- -- -- -- -- --                        ", lines[8])
}

func TestRun_ScanRange(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	out, code, calls := runWith(t, bus, nil, "scan", "-bus", "3", "-first", "0x20", "-last", "0x2f")
	require.Equal(t, 0, code, out)
	assert.Equal(t, 16, bus.CallCount(smbus.OpWriteQuick))
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].bus)

	out, code, _ = runWith(t, smbus.NewMockBus(), nil, "scan", "-first", "0x30", "-last", "0x20")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "is above -last")
}

func TestRun_Funcs(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	bus.SetFunctionality(smbus.FuncI2C | smbus.FuncSMBusByteData)

	out, code, _ := runWith(t, bus, nil, "funcs", "-backend", "periph")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "SMBus Read Byte                  yes")
	assert.Contains(t, out, "SMBus Quick Command              no")
}

func TestRun_NamedDevice(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`devices:
  gyro:
    bus: 4
    address: 0x68
    words: big
    backend: periph
`), 0o600))

	bus := smbus.NewMockBus()
	bus.SetRegister(0x68, 0x1D, 0x12)
	bus.SetRegister(0x68, 0x1E, 0x34)

	out, code, calls := runWith(t, bus, map[string]string{"SMBUS_CONFIG": path},
		"get", "-device", "gyro", "-reg", "0x1D", "-word")
	require.Equal(t, 0, code, out)
	assert.Equal(t, "0x1234\n", out)
	require.Len(t, calls, 1)
	assert.Equal(t, openCall{backend: backendPeriph, bus: 4}, calls[0])
}

func TestRun_BadEnvironment(t *testing.T) {
	t.Parallel()

	out, code, _ := runWith(t, smbus.NewMockBus(), map[string]string{"SMBUS_BACKEND": "serial"}, "scan")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, `unknown backend "serial"`)
}

func TestRun_OpenFailure(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	failing := func(string, int) (smbus.Bus, error) {
		return nil, errors.New("open /dev/i2c-9: no such file or directory")
	}
	code := run(context.Background(), []string{"funcs", "-bus", "9"}, &out, map[string]string{}, failing)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "/dev/i2c-9")
}

func TestRun_Watch(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	bus.SetRegister(0x48, 0x01, 0x7f)

	var (
		out   bytes.Buffer
		calls []openCall
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	code := run(ctx, []string{"watch", "-addr", "0x48", "-reg", "1", "-interval", "1ms"},
		&out, map[string]string{}, mockOpener(bus, &calls))
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "INFO: 0x48 attached, value 0x7f")
}

func TestRun_WatchPointerStable(t *testing.T) {
	t.Parallel()

	bus := smbus.NewMockBus()
	bus.SetRegister(0x20, 0x00, 0x01)
	bus.SetRegister(0x20, 0x01, 0x02)

	var (
		out   bytes.Buffer
		calls []openCall
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	code := run(ctx, []string{"watch", "-addr", "0x20", "-interval", "1ms"},
		&out, map[string]string{}, mockOpener(bus, &calls))
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "INFO: 0x20 attached, value 0x01")
	assert.NotContains(t, out.String(), "changed")
}
