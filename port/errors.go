package port

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied indicates that neither the real nor the effective UID is root.
	ErrPermissionDenied = errors.New("port: permission denied, run as root")

	// ErrDeviceNotFound indicates that no Librem EC ACPI device is present.
	ErrDeviceNotFound = errors.New("port: no Librem EC found")

	// ErrIO indicates a failed or short transfer on the port channel.
	// Use errors.As with *IOError for details.
	ErrIO = errors.New("port: i/o error")

	// ErrClosed indicates use of a handle after Close.
	ErrClosed = errors.New("port: handle closed")

	// ErrBusy indicates that another process holds the advisory port lock.
	ErrBusy = errors.New("port: device busy")

	// ErrUnsupported indicates that port I/O is not available on this platform.
	ErrUnsupported = errors.New("port: unsupported platform")
)

// IOError describes a failed or short transfer. It matches ErrIO with errors.Is.
type IOError struct {
	// Op is "open", "read" or "write".
	Op string
	// Offset is the absolute port offset of the transfer.
	Offset int64
	// Want is the number of bytes requested.
	Want int
	// Got is the number of bytes actually transferred.
	Got int
	// Err is the underlying error, nil for a plain short transfer.
	Err error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		if e.Op == "open" {
			return fmt.Sprintf("port: open: %v", e.Err)
		}
		return fmt.Sprintf("port: %s at 0x%X: %d/%d bytes: %v", e.Op, e.Offset, e.Got, e.Want, e.Err)
	}

	return fmt.Sprintf("port: short %s at 0x%X: %d/%d bytes", e.Op, e.Offset, e.Got, e.Want)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes every IOError match ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }
