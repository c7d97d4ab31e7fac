//go:build !unix

package port

// IsPrivileged always reports false where port I/O is unavailable.
func IsPrivileged() bool {
	return false
}

func lockFile(file) error {
	return ErrUnsupported
}
