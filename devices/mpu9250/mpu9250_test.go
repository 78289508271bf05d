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

package mpu9250

import (
	"context"
	"testing"

	smbus "github.com/ZaparooProject/go-smbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SettleDelay = 0
	cfg.MagAttempts = 3
	return cfg
}

func newTestIMU(t *testing.T, cfg Config) (*IMU, *smbus.MockBus) {
	t.Helper()
	bus := smbus.NewMockBus()
	bus.SetRegister(DefaultAddress, RegWhoAmI, whoAmIValue)
	bus.SetRegister(MagAddress, MagRegWIA, magWIAValue)
	bus.SetRegister(MagAddress, MagRegST2, magOutput16)
	imu, err := New(bus, DefaultAddress, cfg)
	require.NoError(t, err)
	return imu, bus
}

func setWord(bus *smbus.MockBus, addr uint16, reg byte, v int16, little bool) {
	hi, lo := byte(uint16(v)>>8), byte(uint16(v))
	if little {
		hi, lo = lo, hi
	}
	bus.SetRegister(addr, reg, hi)
	bus.SetRegister(addr, reg+1, lo)
}

func TestIMU_Init(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Accel = Accel8G
	cfg.Gyro = Gyro1000DPS
	imu, bus := newTestIMU(t, cfg)

	require.NoError(t, imu.Init(context.Background()))

	assert.Equal(t, pwrClockPLL, bus.Register(DefaultAddress, RegPwrMgmt1))
	assert.Equal(t, byte(0x10), bus.Register(DefaultAddress, RegGyroConfig))
	assert.Equal(t, byte(0x10), bus.Register(DefaultAddress, RegAccelConfig))
	assert.Equal(t, intBypassEn, bus.Register(DefaultAddress, RegIntPinCfg))
	assert.Equal(t, intRawRdyEn, bus.Register(DefaultAddress, RegIntEnable))
	assert.Equal(t, byte(0x16), bus.Register(MagAddress, MagRegCNTL1))
	assert.Equal(t, 9, bus.CallCount(smbus.OpWriteByteData))
}

func TestIMU_InitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setup   func(*smbus.MockBus)
		name    string
		wantErr string
	}{
		{
			name:    "wrong chip",
			setup:   func(b *smbus.MockBus) { b.SetRegister(DefaultAddress, RegWhoAmI, 0x68) },
			wantErr: "unexpected WHO_AM_I 0x68",
		},
		{
			name:    "no magnetometer",
			setup:   func(b *smbus.MockBus) { b.RemoveDevice(MagAddress) },
			wantErr: "read AK8963 WIA",
		},
		{
			name:    "wrong magnetometer",
			setup:   func(b *smbus.MockBus) { b.SetRegister(MagAddress, MagRegWIA, 0x00) },
			wantErr: "unexpected AK8963 WIA 0x00",
		},
		{
			name:    "write fails",
			setup:   func(b *smbus.MockBus) { b.SetError(smbus.OpWriteByteData, smbus.ErrBusIO) },
			wantErr: "init register 0x19",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			imu, bus := newTestIMU(t, testConfig())
			tt.setup(bus)
			err := imu.Init(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIMU_InitCancelled(t *testing.T) {
	t.Parallel()
	imu, bus := newTestIMU(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := imu.Init(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, bus.CallCount(smbus.OpWriteByteData))
}

func TestIMU_ReadRaw(t *testing.T) {
	t.Parallel()
	imu, bus := newTestIMU(t, testConfig())

	setWord(bus, DefaultAddress, RegAccelXOutH, 16384, false)
	setWord(bus, DefaultAddress, RegAccelXOutH+2, -16384, false)
	setWord(bus, DefaultAddress, RegAccelXOutH+4, 1, false)
	setWord(bus, DefaultAddress, RegTempOutH, 0, false)
	setWord(bus, DefaultAddress, RegGyroXOutH, 131, false)
	setWord(bus, DefaultAddress, RegGyroXOutH+2, -262, false)
	setWord(bus, DefaultAddress, RegGyroXOutH+4, 0x1234, false)
	setWord(bus, MagAddress, MagRegHXL, 100, true)
	setWord(bus, MagAddress, MagRegHXL+2, -200, true)
	setWord(bus, MagAddress, MagRegHXL+4, 0x0102, true)

	raw, err := imu.ReadRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [3]int16{16384, -16384, 1}, raw.Accel)
	assert.Equal(t, [3]int16{131, -262, 0x1234}, raw.Gyro)
	assert.Equal(t, [3]int16{100, -200, 0x0102}, raw.Mag)
	assert.Equal(t, int16(0), raw.Temp)
	assert.Equal(t, 2, bus.CallCount(smbus.OpReadI2CBlock))
}

func TestIMU_ReadSample(t *testing.T) {
	t.Parallel()
	imu, bus := newTestIMU(t, testConfig())

	setWord(bus, DefaultAddress, RegAccelXOutH+4, 16384, false)
	setWord(bus, DefaultAddress, RegGyroXOutH, -16384, false)
	setWord(bus, MagAddress, MagRegHXL+2, 32768/2, true)

	s, err := imu.ReadSample(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s.Accel[2], 1e-9)
	assert.InDelta(t, -125.0, s.Gyro[0], 1e-9)
	assert.InDelta(t, 2450.0, s.Mag[1], 1e-9)
	assert.InDelta(t, 21.0, s.Temp, 1e-9)
}

func TestIMU_MagOverflow(t *testing.T) {
	t.Parallel()
	imu, bus := newTestIMU(t, testConfig())
	bus.SetRegister(MagAddress, MagRegST2, magOutput16|magHOFL)

	_, err := imu.ReadRaw(context.Background())
	require.ErrorIs(t, err, ErrMagOverflow)
	// one accel block plus one mag block per attempt
	assert.Equal(t, 4, bus.CallCount(smbus.OpReadI2CBlock))
}

func TestIMU_ReadErrors(t *testing.T) {
	t.Parallel()
	imu, bus := newTestIMU(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := imu.ReadSample(ctx)
	require.ErrorIs(t, err, context.Canceled)

	bus.SetError(smbus.OpReadI2CBlock, smbus.ErrBusIO)
	_, err = imu.ReadSample(context.Background())
	require.ErrorIs(t, err, smbus.ErrBusIO)
}

func TestIMU_Stop(t *testing.T) {
	t.Parallel()
	imu, bus := newTestIMU(t, testConfig())
	require.NoError(t, imu.Init(context.Background()))

	require.NoError(t, imu.Stop())
	assert.Equal(t, pwrSleep|pwrClockPLL, bus.Register(DefaultAddress, RegPwrMgmt1))
	assert.Equal(t, byte(0), bus.Register(MagAddress, MagRegCNTL1))
}

func TestRangeScales(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0/32768, Accel2G.Scale(), 1e-12)
	assert.InDelta(t, 16.0/32768, Accel16G.Scale(), 1e-12)
	assert.InDelta(t, 250.0/32768, Gyro250DPS.Scale(), 1e-12)
	assert.InDelta(t, 2000.0/32768, Gyro2000DPS.Scale(), 1e-12)
}
