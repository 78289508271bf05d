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
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	smbus "github.com/ZaparooProject/go-smbus"
	"github.com/ZaparooProject/go-smbus/detection"
	i2cdetect "github.com/ZaparooProject/go-smbus/detection/i2c"
	"github.com/ZaparooProject/go-smbus/polling"
	periphi2c "github.com/ZaparooProject/go-smbus/transport/i2c"
	"github.com/ZaparooProject/go-smbus/transport/i2cdev"
)

// opener opens a bus by backend and number
type opener func(backend string, bus int) (smbus.Bus, error)

// openBus is the production opener
func openBus(backend string, n int) (smbus.Bus, error) {
	switch backend {
	case backendPeriph:
		bus, err := periphi2c.New(strconv.Itoa(n))
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		bus, err := i2cdev.OpenBus(n)
		if err != nil {
			return nil, err
		}
		return bus, nil
	}
}

// command registers its flags on fs and returns the action to run after
// parsing
type command func(fs *flag.FlagSet) func(ctx context.Context) error

type app struct {
	out  *Output
	open opener
	file fileConfig
	env  envConfig
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"detect": a.detect,
		"scan":   a.scan,
		"get":    a.get,
		"set":    a.set,
		"dump":   a.dump,
		"funcs":  a.funcs,
		"watch":  a.watch,
	}
}

// number is a flag accepting decimal, 0x hex, 0o octal or 0b binary
type number struct {
	value uint64
	max   uint64
	set   bool
}

func (n *number) String() string {
	if n == nil || !n.set {
		return ""
	}
	return fmt.Sprintf("0x%02x", n.value)
}

func (n *number) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	if v > n.max {
		return fmt.Errorf("0x%x is out of range (max 0x%x)", v, n.max)
	}
	n.value = v
	n.set = true
	return nil
}

// target is the bus/device selection shared by the device commands
type target struct {
	device  *string
	backend *string
	bus     *int
	addr    *number
}

func (a *app) targetFlags(fs *flag.FlagSet, needAddr bool) *target {
	t := &target{
		bus:     fs.Int("bus", a.env.Bus, "I2C bus number (/dev/i2c-N)"),
		backend: fs.String("backend", a.env.Backend, "Bus backend: i2c-dev or periph"),
		addr:    &number{max: smbus.MaxAddress},
	}
	if needAddr {
		fs.Var(t.addr, "addr", "7-bit device address (e.g. 0x68)")
		t.device = fs.String("device", "", "Named device from the config file")
	}
	return t
}

// resolve returns the backend, bus number, device options and address
func (a *app) resolve(t *target, needAddr bool) (backend string, bus int, addr uint16, opts []smbus.Option, err error) {
	backend, bus = *t.backend, *t.bus

	if t.device != nil && *t.device != "" {
		named, ok := a.file.Devices[*t.device]
		if !ok {
			return "", 0, 0, nil, fmt.Errorf("unknown device %q", *t.device)
		}
		bus = named.Bus
		addr = named.Address
		if named.Backend != "" {
			backend = named.Backend
		}
		if strings.EqualFold(named.Words, "big") {
			opts = append(opts, smbus.WithBigEndianWords())
		}
		return backend, bus, addr, opts, validateBackend(backend)
	}

	if needAddr && !t.addr.set {
		return "", 0, 0, nil, errors.New("-addr or -device is required")
	}
	return backend, bus, uint16(t.addr.value), nil, validateBackend(backend)
}

func (a *app) openDevice(t *target) (*smbus.Device, func(), error) {
	backend, n, addr, opts, err := a.resolve(t, true)
	if err != nil {
		return nil, nil, err
	}
	bus, err := a.open(backend, n)
	if err != nil {
		return nil, nil, err
	}
	dev, err := smbus.NewDevice(bus, addr, opts...)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	a.out.Verbose("using %s bus %d device 0x%02x", backend, n, addr)
	return dev, func() { _ = bus.Close() }, nil
}

func (a *app) openTargetBus(t *target) (smbus.Bus, error) {
	backend, n, _, _, err := a.resolve(t, false)
	if err != nil {
		return nil, err
	}
	return a.open(backend, n)
}

func (a *app) detect(fs *flag.FlagSet) func(context.Context) error {
	mode := fs.String("mode", "safe", "Detection mode: passive, safe or active")
	ignore := fs.String("ignore", "", "Comma-separated bus or device paths to skip")
	return func(ctx context.Context) error {
		opts := detection.DefaultOptions()
		m, err := detection.ParseMode(*mode)
		if err != nil {
			return err
		}
		opts.Mode = m
		if *ignore != "" {
			opts.IgnorePaths = strings.Split(*ignore, ",")
		}

		devices, err := detection.DetectAll(ctx, &opts)
		if errors.Is(err, detection.ErrNoDevicesFound) {
			a.out.Info("no devices found")
			return nil
		}
		a.out.Devices(devices)
		return err
	}
}

func (a *app) scan(fs *flag.FlagSet) func(context.Context) error {
	t := a.targetFlags(fs, false)
	first := &number{value: 0x08, max: smbus.MaxAddress}
	last := &number{value: 0x77, max: smbus.MaxAddress}
	fs.Var(first, "first", "First address to scan")
	fs.Var(last, "last", "Last address to scan")
	return func(ctx context.Context) error {
		if first.value > last.value {
			return fmt.Errorf("-first 0x%02x is above -last 0x%02x", first.value, last.value)
		}
		bus, err := a.openTargetBus(t)
		if err != nil {
			return err
		}
		defer func() { _ = bus.Close() }()

		results, err := i2cdetect.ScanBus(ctx, bus, uint16(first.value), uint16(last.value))
		if err != nil {
			return err
		}
		a.out.ScanGrid(results, uint16(first.value), uint16(last.value))
		return nil
	}
}

func (a *app) get(fs *flag.FlagSet) func(context.Context) error {
	t := a.targetFlags(fs, true)
	reg := &number{max: 0xFF}
	fs.Var(reg, "reg", "Register to read; omit to read at the register pointer")
	word := fs.Bool("word", false, "Read a 16-bit word")
	return func(context.Context) error {
		dev, closeBus, err := a.openDevice(t)
		if err != nil {
			return err
		}
		defer closeBus()

		switch {
		case *word:
			if !reg.set {
				return errors.New("-word needs -reg")
			}
			v, err := dev.ReadWord(byte(reg.value))
			if err != nil {
				return err
			}
			a.out.Value(v, true)
		case reg.set:
			v, err := dev.ReadRegister(byte(reg.value))
			if err != nil {
				return err
			}
			a.out.Value(uint16(v), false)
		default:
			v, err := dev.ReadByte()
			if err != nil {
				return err
			}
			a.out.Value(uint16(v), false)
		}
		return nil
	}
}

func (a *app) set(fs *flag.FlagSet) func(context.Context) error {
	t := a.targetFlags(fs, true)
	reg := &number{max: 0xFF}
	value := &number{max: 0xFFFF}
	fs.Var(reg, "reg", "Register to write; omit to send a single byte")
	fs.Var(value, "value", "Value to write")
	word := fs.Bool("word", false, "Write a 16-bit word")
	yes := fs.Bool("yes", false, "Confirm the write; writes can misconfigure hardware")
	return func(context.Context) error {
		if !value.set {
			return errors.New("-value is required")
		}
		if !*word && value.value > 0xFF {
			return fmt.Errorf("value 0x%x does not fit in a byte; use -word", value.value)
		}
		if !*yes {
			return errors.New("refusing to write without -yes")
		}

		dev, closeBus, err := a.openDevice(t)
		if err != nil {
			return err
		}
		defer closeBus()

		switch {
		case *word:
			if !reg.set {
				return errors.New("-word needs -reg")
			}
			return dev.WriteWord(byte(reg.value), uint16(value.value))
		case reg.set:
			return dev.WriteRegister(byte(reg.value), byte(value.value))
		default:
			return dev.WriteByte(byte(value.value))
		}
	}
}

func (a *app) dump(fs *flag.FlagSet) func(context.Context) error {
	t := a.targetFlags(fs, true)
	return func(ctx context.Context) error {
		dev, closeBus, err := a.openDevice(t)
		if err != nil {
			return err
		}
		defer closeBus()

		var (
			regs     [256]byte
			failed   [256]bool
			failures int
		)
		for reg := 0; reg < 256; reg++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := dev.ReadRegister(byte(reg))
			if err != nil {
				if reg == 0 && smbus.IsNoDevice(err) {
					return err
				}
				failed[reg] = true
				failures++
				continue
			}
			regs[reg] = v
		}
		a.out.Dump(regs, failed)
		if failures > 0 {
			a.out.Verbose("%d register reads failed", failures)
		}
		return nil
	}
}

func (a *app) funcs(fs *flag.FlagSet) func(context.Context) error {
	t := a.targetFlags(fs, false)
	return func(context.Context) error {
		bus, err := a.openTargetBus(t)
		if err != nil {
			return err
		}
		defer func() { _ = bus.Close() }()

		funcs, err := bus.Functionality()
		if err != nil {
			return err
		}
		a.out.Funcs(funcs)
		return nil
	}
}

func (a *app) watch(fs *flag.FlagSet) func(context.Context) error {
	t := a.targetFlags(fs, true)
	reg := &number{max: 0xFF}
	pointer := &number{max: 0xFF}
	fs.Var(reg, "reg", "Register to watch with register reads")
	fs.Var(pointer, "pointer", "Register pointer to rewind to before each byte read (default 0); ignored with -reg")
	interval := fs.Duration("interval", 100*time.Millisecond, "Delay between reads")
	misses := fs.Int("misses", 3, "Failed reads before the device counts as detached")
	return func(ctx context.Context) error {
		dev, closeBus, err := a.openDevice(t)
		if err != nil {
			return err
		}
		defer closeBus()

		monitor, err := polling.NewMonitor(dev, &polling.Config{
			PollInterval:  *interval,
			RemovalMisses: *misses,
		})
		if err != nil {
			return err
		}
		if reg.set {
			monitor.WatchRegister(byte(reg.value))
		} else {
			monitor.WatchPointer(byte(pointer.value))
		}
		monitor.OnAttached = func(v byte) {
			a.out.Info("0x%02x attached, value 0x%02x", dev.Address(), v)
		}
		monitor.OnChanged = func(oldValue, newValue byte) {
			a.out.Info("0x%02x changed 0x%02x -> 0x%02x", dev.Address(), oldValue, newValue)
		}
		monitor.OnDetached = func(err error) {
			a.out.Info("0x%02x detached: %v", dev.Address(), err)
		}

		err = monitor.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}
