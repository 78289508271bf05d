//go:build !linux

package i2c

import (
	"context"

	"github.com/ZaparooProject/go-smbus/detection"
)

// detectLinux is a stub for non-Linux platforms
func detectLinux(context.Context, *detection.Options) ([]detection.DeviceInfo, error) {
	return nil, detection.ErrUnsupportedPlatform
}
