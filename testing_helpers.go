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
	"sync"
)

// Mock bus operation names, used with SetError and CallCount.
const (
	OpReadByte      = "ReadByte"
	OpWriteByte     = "WriteByte"
	OpReadByteData  = "ReadByteData"
	OpWriteByteData = "WriteByteData"
	OpReadWordData  = "ReadWordData"
	OpWriteWordData = "WriteWordData"
	OpReadI2CBlock  = "ReadI2CBlock"
	OpWriteI2CBlock = "WriteI2CBlock"
	OpWriteQuick    = "WriteQuick"
)

// mockChip is one simulated slave: a 256-byte register file plus the
// register pointer used by the no-register byte transactions.
type mockChip struct {
	regs    [256]byte
	pointer byte
}

// MockBus is an in-memory Bus for testing drivers without hardware.
// Registers behave like a typical auto-incrementing register file.
type MockBus struct {
	chips  map[uint16]*mockChip
	errors map[string]error
	calls  map[string]int
	funcs  Funcs
	mu     sync.Mutex
	closed bool
}

// NewMockBus creates an empty mock bus with full SMBus functionality
func NewMockBus() *MockBus {
	return &MockBus{
		chips:  make(map[uint16]*mockChip),
		errors: make(map[string]error),
		calls:  make(map[string]int),
		funcs:  FuncI2C | FuncSMBusEmulated,
	}
}

// AddDevice makes addr answer on the bus
func (m *MockBus) AddDevice(addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chips[addr]; !ok {
		m.chips[addr] = &mockChip{}
	}
}

// RemoveDevice makes addr stop answering
func (m *MockBus) RemoveDevice(addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chips, addr)
}

// SetRegister presets a register value, adding the device if needed
func (m *MockBus) SetRegister(addr uint16, reg, value byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, ok := m.chips[addr]
	if !ok {
		chip = &mockChip{}
		m.chips[addr] = chip
	}
	chip.regs[reg] = value
}

// Register returns a register value without counting as a bus call
func (m *MockBus) Register(addr uint16, reg byte) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chip, ok := m.chips[addr]; ok {
		return chip.regs[reg]
	}
	return 0
}

// SetError makes every call of op fail with err. A nil err clears it.
func (m *MockBus) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errors, op)
		return
	}
	m.errors[op] = err
}

// SetFunctionality overrides the reported adapter functionality
func (m *MockBus) SetFunctionality(funcs Funcs) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = funcs
}

// CallCount returns how many times op was called
func (m *MockBus) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// begin records a call and resolves the target chip
func (m *MockBus) begin(op string, addr uint16) (*mockChip, error) {
	m.calls[op]++
	if m.closed {
		return nil, NewBusError(op, "mock", addr, KindClosed, ErrBusClosed)
	}
	if err := ValidateAddress(addr); err != nil {
		return nil, NewBusError(op, "mock", addr, KindInvalid, err)
	}
	if err, ok := m.errors[op]; ok {
		return nil, NewBusError(op, "mock", addr, KindOf(err), err)
	}
	chip, ok := m.chips[addr]
	if !ok {
		return nil, NewBusError(op, "mock", addr, KindNoDevice, ErrNoDevice)
	}
	return chip, nil
}

// ReadByte reads at the register pointer and advances it
func (m *MockBus) ReadByte(addr uint16) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpReadByte, addr)
	if err != nil {
		return 0, err
	}
	value := chip.regs[chip.pointer]
	chip.pointer++
	return value, nil
}

// WriteByte moves the register pointer to value
func (m *MockBus) WriteByte(addr uint16, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpWriteByte, addr)
	if err != nil {
		return err
	}
	chip.pointer = value
	return nil
}

// ReadByteData reads reg
func (m *MockBus) ReadByteData(addr uint16, reg byte) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpReadByteData, addr)
	if err != nil {
		return 0, err
	}
	chip.pointer = reg + 1
	return chip.regs[reg], nil
}

// WriteByteData writes reg
func (m *MockBus) WriteByteData(addr uint16, reg, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpWriteByteData, addr)
	if err != nil {
		return err
	}
	chip.regs[reg] = value
	chip.pointer = reg + 1
	return nil
}

// ReadWordData reads reg (low byte) and reg+1 (high byte)
func (m *MockBus) ReadWordData(addr uint16, reg byte) (uint16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpReadWordData, addr)
	if err != nil {
		return 0, err
	}
	value := uint16(chip.regs[reg]) | uint16(chip.regs[reg+1])<<8
	chip.pointer = reg + 2
	return value, nil
}

// WriteWordData writes the low byte to reg and the high byte to reg+1
func (m *MockBus) WriteWordData(addr uint16, reg byte, value uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpWriteWordData, addr)
	if err != nil {
		return err
	}
	chip.regs[reg] = byte(value)
	chip.regs[reg+1] = byte(value >> 8)
	chip.pointer = reg + 2
	return nil
}

// ReadI2CBlock reads consecutive registers, wrapping at 0xFF
func (m *MockBus) ReadI2CBlock(addr uint16, reg byte, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpReadI2CBlock, addr)
	if err != nil {
		return err
	}
	if err := ValidateBlock(len(buf)); err != nil {
		return NewBusError(OpReadI2CBlock, "mock", addr, KindInvalid, err)
	}
	for i := range buf {
		buf[i] = chip.regs[reg+byte(i)]
	}
	chip.pointer = reg + byte(len(buf))
	return nil
}

// WriteI2CBlock writes consecutive registers, wrapping at 0xFF
func (m *MockBus) WriteI2CBlock(addr uint16, reg byte, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chip, err := m.begin(OpWriteI2CBlock, addr)
	if err != nil {
		return err
	}
	if err := ValidateBlock(len(data)); err != nil {
		return NewBusError(OpWriteI2CBlock, "mock", addr, KindInvalid, err)
	}
	for i, b := range data {
		chip.regs[reg+byte(i)] = b
	}
	chip.pointer = reg + byte(len(data))
	return nil
}

// WriteQuick succeeds when a device is present at addr
func (m *MockBus) WriteQuick(addr uint16, _ byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.begin(OpWriteQuick, addr)
	return err
}

// Functionality returns the configured functionality bits
func (m *MockBus) Functionality() (Funcs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrBusClosed
	}
	return m.funcs, nil
}

// Close marks the bus closed; later calls fail with ErrBusClosed
func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns BusMock
func (*MockBus) Type() BusType {
	return BusMock
}

var (
	_ Bus         = (*MockBus)(nil)
	_ QuickWriter = (*MockBus)(nil)
)
