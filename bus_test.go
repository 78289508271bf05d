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
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncs_Has(t *testing.T) {
	t.Parallel()

	funcs := FuncI2C | FuncSMBusByteData | FuncSMBusQuick

	assert.True(t, funcs.Has(FuncSMBusReadByteData))
	assert.True(t, funcs.Has(FuncSMBusByteData))
	assert.False(t, funcs.Has(FuncSMBusWordData))
	assert.False(t, funcs.Has(FuncSMBusQuick|FuncSMBusReadByte))
}

func TestFuncs_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", Funcs(0).String())
	assert.Equal(t, "i2c,quick,read-byte-data", (FuncI2C | FuncSMBusQuick | FuncSMBusReadByteData).String())
}

func TestValidateAddress(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateAddress(0x00))
	require.NoError(t, ValidateAddress(0x7F))
	require.ErrorIs(t, ValidateAddress(0x80), ErrInvalidAddress)
	require.ErrorIs(t, ValidateAddress(0x3FF), ErrInvalidAddress)
}

func TestMockBus_QuickWrite(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.AddDevice(0x53)

	require.NoError(t, bus.WriteQuick(0x53, 0))
	require.ErrorIs(t, bus.WriteQuick(0x54, 0), ErrNoDevice)

	bus.RemoveDevice(0x53)
	require.ErrorIs(t, bus.WriteQuick(0x53, 0), ErrNoDevice)
	assert.Equal(t, 3, bus.CallCount(OpWriteQuick))
}

func TestMockBus_ClearError(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.AddDevice(0x10)
	bus.SetError(OpReadByte, ErrBusBusy)

	_, err := bus.ReadByte(0x10)
	require.ErrorIs(t, err, ErrBusBusy)

	bus.SetError(OpReadByte, nil)
	_, err = bus.ReadByte(0x10)
	require.NoError(t, err)
}

func TestDebugSwitch(t *testing.T) {
	var buf bytes.Buffer
	Logger().SetOutput(&buf)
	defer Logger().SetOutput(os.Stderr)

	Debugf("hidden %d", 1)
	assert.False(t, DebugEnabled())
	assert.Empty(t, buf.String())

	SetDebugEnabled(true)
	defer SetDebugEnabled(false)

	assert.True(t, DebugEnabled())
	Debugf("trace %d", 2)
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), `msg="trace 2"`)
	assert.Contains(t, buf.String(), "component=smbus")

	SetDebugEnabled(false)
	buf.Reset()
	Debugf("hidden %d", 3)
	assert.Empty(t, buf.String())
}
