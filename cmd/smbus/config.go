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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Backend names
const (
	backendI2CDev = "i2c-dev"
	backendPeriph = "periph"
)

// envConfig holds defaults that flags override
type envConfig struct {
	Backend    string `env:"SMBUS_BACKEND" envDefault:"i2c-dev"`
	ConfigFile string `env:"SMBUS_CONFIG"`
	Bus        int    `env:"SMBUS_BUS" envDefault:"1"`
	Debug      bool   `env:"SMBUS_DEBUG"`
}

// loadEnv reads envConfig from environ. A nil environ reads the process
// environment.
func loadEnv(environ map[string]string) (envConfig, error) {
	var cfg envConfig
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	if err := validateBackend(cfg.Backend); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateBackend(name string) error {
	switch name {
	case backendI2CDev, backendPeriph:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", name, backendI2CDev, backendPeriph)
	}
}

// namedDevice is one entry of the devices file
type namedDevice struct {
	Backend string `yaml:"backend,omitempty"`
	Words   string `yaml:"words,omitempty"` // "little" (default) or "big"
	Bus     int    `yaml:"bus"`
	Address uint16 `yaml:"address"`
}

// fileConfig is the YAML devices file
type fileConfig struct {
	Devices map[string]namedDevice `yaml:"devices"`
}

// loadFile reads a devices file. A missing file yields an empty config.
func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	for name, dev := range cfg.Devices {
		if dev.Address > 0x7F {
			return cfg, fmt.Errorf("device %q: address 0x%X is not a 7-bit address", name, dev.Address)
		}
		if dev.Backend != "" {
			if err := validateBackend(dev.Backend); err != nil {
				return cfg, fmt.Errorf("device %q: %w", name, err)
			}
		}
		switch strings.ToLower(dev.Words) {
		case "", "little", "big":
		default:
			return cfg, fmt.Errorf("device %q: words must be little or big, got %q", name, dev.Words)
		}
	}
	return cfg, nil
}
