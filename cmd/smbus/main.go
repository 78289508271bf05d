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

// Command smbus reads, writes, and scans SMBus devices on Linux I2C buses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	smbus "github.com/ZaparooProject/go-smbus"
)

const usage = `usage: smbus <command> [flags]

commands:
  detect   list buses and devices on all i2c-dev adapters
  scan     check every address on one bus
  get      read a byte, register, or word
  set      write a byte, register, or word
  dump     read all 256 byte registers of a device
  funcs    show adapter functionality
  watch    report a device attaching, detaching, or changing a register

Run "smbus <command> -h" for command flags.
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, nil, openBus)
	cancel()
	os.Exit(code)
}

// run executes one command and returns the process exit code. environ
// replaces the process environment when non-nil; open creates buses.
func run(ctx context.Context, args []string, stdout io.Writer, environ map[string]string, open opener) int {
	out := NewOutput(stdout, false)

	if len(args) == 0 {
		_, _ = fmt.Fprint(stdout, usage)
		return 2
	}

	cfg, err := loadEnv(environ)
	if err != nil {
		out.Error("%v", err)
		return 1
	}
	if cfg.Debug {
		smbus.SetDebugEnabled(true)
	}

	file, err := loadFile(cfg.ConfigFile)
	if err != nil {
		out.Error("%v", err)
		return 1
	}

	app := &app{
		env:  cfg,
		file: file,
		out:  out,
		open: open,
	}

	cmd, ok := app.commands()[args[0]]
	if !ok {
		out.Error("unknown command %q", args[0])
		_, _ = fmt.Fprint(stdout, usage)
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stdout)
	verbose := fs.Bool("verbose", false, "Enable verbose output")
	runCmd := cmd(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	out.verbose = *verbose

	if err := runCmd(ctx); err != nil {
		out.Error("%v", err)
		return 1
	}
	return 0
}
