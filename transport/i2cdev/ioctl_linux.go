//go:build linux

package i2cdev

import (
	"errors"
	"unsafe"

	smbus "github.com/ZaparooProject/go-smbus"
	"golang.org/x/sys/unix"
)

// ioctl requests from <linux/i2c-dev.h>
const (
	i2cSlave      = 0x0703
	i2cSlaveForce = 0x0706
	i2cFuncs      = 0x0705
	i2cSMBus      = 0x0720
)

func setAddress(fd int, addr uint16, force bool) error {
	req := uintptr(i2cSlave)
	if force {
		req = i2cSlaveForce
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(addr))
	if errno != 0 {
		return errno
	}
	return nil
}

func smbusAccess(fd int, args *smbusIoctlData) error {
	// #nosec G103 -- unsafe pointer required for ioctl system call
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), i2cSMBus, uintptr(unsafe.Pointer(args)))
	if errno != 0 {
		return errno
	}
	return nil
}

func functionality(fd int) (smbus.Funcs, error) {
	// I2C_FUNCS writes an unsigned long
	var funcs uintptr
	// #nosec G103 -- unsafe pointer required for ioctl system call
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), i2cFuncs, uintptr(unsafe.Pointer(&funcs)))
	if errno != 0 {
		return 0, errno
	}
	return smbus.Funcs(funcs), nil
}

// classify maps a kernel errno onto the package error kinds
func classify(err error) smbus.ErrorKind {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return smbus.KindOf(err)
	}
	switch errno {
	case unix.ENXIO, unix.EREMOTEIO:
		return smbus.KindNoDevice
	case unix.EBUSY, unix.EAGAIN:
		return smbus.KindBusy
	case unix.ETIMEDOUT:
		return smbus.KindTimeout
	case unix.EBADF, unix.ENOTTY:
		return smbus.KindBadDescriptor
	case unix.EOPNOTSUPP:
		return smbus.KindUnsupported
	default:
		return smbus.KindIO
	}
}
