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
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddr = 0x68

func newTestDevice(t *testing.T, opts ...Option) (*Device, *MockBus) {
	t.Helper()
	bus := NewMockBus()
	bus.AddDevice(testAddr)
	dev, err := NewDevice(bus, testAddr, opts...)
	require.NoError(t, err)
	return dev, bus
}

func TestNewDevice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bus     Bus
		wantErr error
		name    string
		addr    uint16
	}{
		{name: "valid 7-bit address", bus: NewMockBus(), addr: 0x53},
		{name: "highest 7-bit address", bus: NewMockBus(), addr: 0x7F},
		{name: "10-bit address rejected", bus: NewMockBus(), addr: 0x80, wantErr: ErrInvalidAddress},
		{name: "nil bus", bus: nil, addr: 0x53},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dev, err := NewDevice(tt.bus, tt.addr)
			switch {
			case tt.bus == nil:
				require.Error(t, err)
				assert.Nil(t, dev)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, dev)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.addr, dev.Address())
				assert.Equal(t, tt.bus, dev.Bus())
			}
		})
	}
}

// TestDevice_WriteThenRead checks that every register round-trips every
// byte value unchanged.
func TestDevice_WriteThenRead(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(t)

	for reg := 0; reg <= 0xFF; reg++ {
		for _, value := range []byte{0x00, 0x01, 0x5A, 0x7F, 0x80, 0xA5, 0xFE, 0xFF} {
			require.NoError(t, dev.WriteRegister(byte(reg), value))
			got, err := dev.ReadRegister(byte(reg))
			require.NoError(t, err)
			require.Equal(t, value, got, "register 0x%02X", reg)
		}
	}
}

func TestDevice_ByteUsesRegisterPointer(t *testing.T) {
	t.Parallel()

	dev, bus := newTestDevice(t)
	bus.SetRegister(testAddr, 0x1D, 0x12)
	bus.SetRegister(testAddr, 0x1E, 0x34)

	require.NoError(t, dev.WriteByte(0x1D))

	high, err := dev.ReadByte()
	require.NoError(t, err)
	low, err := dev.ReadByte()
	require.NoError(t, err)

	assert.Equal(t, byte(0x12), high)
	assert.Equal(t, byte(0x34), low)
	assert.Equal(t, 1, bus.CallCount(OpWriteByte))
	assert.Equal(t, 2, bus.CallCount(OpReadByte))
}

func TestDevice_WordOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []Option
		want  uint16
		wantH byte
		wantL byte
	}{
		{name: "little endian default", want: 0x3412, wantL: 0x12, wantH: 0x34},
		{name: "big endian", opts: []Option{WithBigEndianWords()}, want: 0x1234, wantL: 0x12, wantH: 0x34},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dev, bus := newTestDevice(t, tt.opts...)
			bus.SetRegister(testAddr, 0x20, 0x12)
			bus.SetRegister(testAddr, 0x21, 0x34)

			got, err := dev.ReadWord(0x20)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			require.NoError(t, dev.WriteWord(0x40, tt.want))
			assert.Equal(t, tt.wantL, bus.Register(testAddr, 0x40))
			assert.Equal(t, tt.wantH, bus.Register(testAddr, 0x41))
		})
	}
}

func TestWithWordOrder_RejectsOtherOrders(t *testing.T) {
	t.Parallel()

	_, err := NewDevice(NewMockBus(), testAddr, WithWordOrder(binary.NativeEndian))
	require.Error(t, err)
}

func TestDevice_Block(t *testing.T) {
	t.Parallel()

	dev, bus := newTestDevice(t)

	data := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, dev.WriteBlock(0x32, data))

	buf := make([]byte, len(data))
	require.NoError(t, dev.ReadBlock(0x32, buf))
	assert.Equal(t, data, buf)

	tooLarge := make([]byte, I2CBlockMax+1)
	require.ErrorIs(t, dev.WriteBlock(0x00, tooLarge), ErrDataTooLarge)
	require.ErrorIs(t, dev.ReadBlock(0x00, tooLarge), ErrDataTooLarge)
	assert.Equal(t, 1, bus.CallCount(OpWriteI2CBlock))
	assert.Equal(t, 1, bus.CallCount(OpReadI2CBlock))
}

func TestDevice_UpdateRegister(t *testing.T) {
	t.Parallel()

	dev, bus := newTestDevice(t)
	bus.SetRegister(testAddr, 0x2D, 0b1010_0101)

	require.NoError(t, dev.UpdateRegister(0x2D, 0b0000_1111, 0b0000_1010))
	assert.Equal(t, byte(0b1010_1010), bus.Register(testAddr, 0x2D))

	reg := dev.Register(0x2D)
	require.NoError(t, reg.SetBits(0b0100_0000))
	assert.Equal(t, byte(0b1110_1010), bus.Register(testAddr, 0x2D))

	require.NoError(t, reg.ClearBits(0b1000_0010))
	got, err := reg.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0b0110_1000), got)
}

func TestDevice_UpdateRegisterReadFailure(t *testing.T) {
	t.Parallel()

	dev, bus := newTestDevice(t)
	bus.SetError(OpReadByteData, ErrBusIO)

	err := dev.UpdateRegister(0x2D, 0xFF, 0x01)
	require.ErrorIs(t, err, ErrBusIO)
	assert.Equal(t, 0, bus.CallCount(OpWriteByteData))
}

func TestDevice_ErrorsPropagateUnchanged(t *testing.T) {
	t.Parallel()

	cause := errors.New("remote I/O error")
	dev, bus := newTestDevice(t)
	bus.SetError(OpReadByteData, cause)
	bus.SetError(OpWriteByteData, ErrTimeout)

	_, err := dev.ReadRegister(0x00)
	require.ErrorIs(t, err, cause)

	err = dev.WriteRegister(0x00, 0x01)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestDevice_MissingDevice(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	dev, err := NewDevice(bus, 0x53)
	require.NoError(t, err)

	_, err = dev.ReadRegister(0x00)
	require.Error(t, err)
	assert.True(t, IsNoDevice(err))

	var busErr *BusError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, uint16(0x53), busErr.Addr)
	assert.Equal(t, OpReadByteData, busErr.Op)
}

func TestDevice_ClosedBus(t *testing.T) {
	t.Parallel()

	dev, bus := newTestDevice(t)
	require.NoError(t, bus.Close())

	_, err := dev.ReadByte()
	require.ErrorIs(t, err, ErrBusClosed)

	_, err = bus.Functionality()
	require.ErrorIs(t, err, ErrBusClosed)
}

func TestDevice_String(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(t)
	assert.Equal(t, "mock@0x68", dev.String())
}
