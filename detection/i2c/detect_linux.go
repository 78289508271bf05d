//go:build linux

package i2c

import (
	"context"

	smbus "github.com/ZaparooProject/go-smbus"
	"github.com/ZaparooProject/go-smbus/detection"
	"github.com/ZaparooProject/go-smbus/transport/i2cdev"
)

func detectLinux(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	buses, err := i2cdev.List()
	if err != nil {
		return nil, err
	}
	return detectBuses(ctx, buses, openDev, opts)
}

func openDev(path string) (smbus.Bus, error) {
	bus, err := i2cdev.Open(path)
	if err != nil {
		return nil, err
	}
	return bus, nil
}
