//go:build !linux

package i2cdev

import (
	smbus "github.com/ZaparooProject/go-smbus"
)

func setAddress(int, uint16, bool) error {
	return smbus.ErrUnsupportedPlatform
}

func smbusAccess(int, *smbusIoctlData) error {
	return smbus.ErrUnsupportedPlatform
}

func functionality(int) (smbus.Funcs, error) {
	return 0, smbus.ErrUnsupportedPlatform
}

func classify(error) smbus.ErrorKind {
	return smbus.KindUnsupported
}
