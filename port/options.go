package port

import (
	"errors"
	"os"

	"github.com/nica-f/librem-control/logger"
)

// DefaultPath is the port-I/O character device.
const DefaultPath = "/dev/port"

// ACPI device nodes registered by the Librem EC ACPI driver.
const (
	ACPIPathLegacy = "/sys/bus/acpi/devices/316D4C14:00"
	ACPIPathPurism = "/sys/bus/acpi/devices/PURI4543:00"
)

// DefaultDevicePaths lists the ACPI nodes probed by Open, in order.
var DefaultDevicePaths = []string{ACPIPathLegacy, ACPIPathPurism}

// file is the subset of *os.File used by Port.
type file interface {
	ReadAt(b []byte, off int64) (int, error)
	WriteAt(b []byte, off int64) (int, error)
	Close() error
	Fd() uintptr
}

type options struct {
	path        string
	devicePaths []string
	lock        bool
	logger      logger.Logger

	privileged func() bool
	stat       func(name string) (os.FileInfo, error)
	openFile   func(name string) (file, error)
}

func defaultOptions() *options {
	return &options{
		path:        DefaultPath,
		devicePaths: DefaultDevicePaths,
		logger:      logger.GetLogger(),
		privileged:  IsPrivileged,
		stat:        os.Stat,
		openFile: func(name string) (file, error) {
			return os.OpenFile(name, os.O_RDWR, 0)
		},
	}
}

// Option is a functional option for Open.
type Option interface {
	apply(*options) error
}

type optFunc func(*options) error

func (f optFunc) apply(o *options) error { return f(o) }

// WithPath sets the port-I/O device path. Default is DefaultPath.
func WithPath(path string) Option {
	return optFunc(func(o *options) error {
		if path == "" {
			return errors.New("port: empty device path")
		}
		o.path = path
		return nil
	})
}

// WithDevicePaths replaces the ACPI nodes probed before opening.
// An empty list disables the device probe.
func WithDevicePaths(paths ...string) Option {
	return optFunc(func(o *options) error {
		o.devicePaths = paths
		return nil
	})
}

// WithPrivilegeCheck replaces the root check. A nil function disables it.
func WithPrivilegeCheck(check func() bool) Option {
	return optFunc(func(o *options) error {
		o.privileged = check
		return nil
	})
}

// WithLock takes an exclusive advisory lock on the device for the lifetime
// of the handle. Open fails with ErrBusy if another process holds it.
func WithLock(lock bool) Option {
	return optFunc(func(o *options) error {
		o.lock = lock
		return nil
	})
}

// WithLogger sets the logger. Default is logger.GetLogger().
func WithLogger(l logger.Logger) Option {
	return optFunc(func(o *options) error {
		if l == nil {
			return errors.New("port: nil logger")
		}
		o.logger = l
		return nil
	})
}
