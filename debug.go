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
	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Logger returns the package logger. Callers may redirect its output or
// change its formatter; SetDebugEnabled controls its level.
func Logger() *logrus.Logger {
	return logger
}

// SetDebugEnabled turns transaction tracing on or off
func SetDebugEnabled(enabled bool) {
	if enabled {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.InfoLevel)
}

// DebugEnabled reports whether transaction tracing is on
func DebugEnabled() bool {
	return logger.IsLevelEnabled(logrus.DebugLevel)
}

// Debugf logs a formatted trace line when debugging is enabled. It is
// exported so that backends in sub-packages share the same switch.
func Debugf(format string, args ...any) {
	logger.WithField("component", "smbus").Debugf(format, args...)
}

func debugf(format string, args ...any) {
	Debugf(format, args...)
}
