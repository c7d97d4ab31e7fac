package port

import (
	"errors"
	"io/fs"
	"os"
)

// DetectDevice returns the first of paths that exists.
// It returns ErrDeviceNotFound if none does.
func DetectDevice(stat func(string) (os.FileInfo, error), paths []string) (string, error) {
	for _, p := range paths {
		_, err := stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission) {
			return "", err
		}
	}

	return "", ErrDeviceNotFound
}
