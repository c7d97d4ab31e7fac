//go:build unix

package port

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsPrivileged reports whether the real or effective UID is root.
func IsPrivileged() bool {
	return unix.Getuid() == 0 || unix.Geteuid() == 0
}

func lockFile(f file) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrBusy
	}

	return err
}
