package port

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTempPortFile creates a zero-filled file standing in for /dev/port.
func newTempPortFile(t *testing.T, size int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "port")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))

	return path
}

// openTestPort opens path with all preconditions disabled.
func openTestPort(t *testing.T, path string, opts ...Option) *Port {
	t.Helper()

	defaults := []Option{
		WithPath(path),
		WithDevicePaths(),
		WithPrivilegeCheck(nil),
	}
	p, err := Open(append(defaults, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

func TestOpen_PermissionDenied(t *testing.T) {
	opened := false
	o := []Option{
		WithPrivilegeCheck(func() bool { return false }),
		optFunc(func(o *options) error {
			o.openFile = func(string) (file, error) {
				opened = true
				return nil, errors.New("unexpected open")
			}
			return nil
		}),
	}

	_, err := Open(o...)
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, opened)
}

func TestOpen_DeviceNotFound(t *testing.T) {
	var probed []string
	opened := false

	_, err := Open(
		WithPrivilegeCheck(func() bool { return true }),
		optFunc(func(o *options) error {
			o.stat = func(name string) (os.FileInfo, error) {
				probed = append(probed, name)
				return nil, fs.ErrNotExist
			}
			o.openFile = func(string) (file, error) {
				opened = true
				return nil, errors.New("unexpected open")
			}
			return nil
		}),
	)

	require.ErrorIs(t, err, ErrDeviceNotFound)
	assert.Equal(t, []string{ACPIPathLegacy, ACPIPathPurism}, probed)
	assert.False(t, opened, "port device must not be opened without an EC")
}

func TestOpen_SecondDevicePath(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "PURI4543:00")
	require.NoError(t, os.Mkdir(second, 0o755))

	p := openTestPort(t, newTempPortFile(t, 0x1000),
		WithDevicePaths(filepath.Join(dir, "316D4C14:00"), second),
	)
	assert.Equal(t, second, p.Device())
}

func TestOpen_IOError(t *testing.T) {
	_, err := Open(
		WithPath(filepath.Join(t.TempDir(), "missing")),
		WithDevicePaths(),
		WithPrivilegeCheck(nil),
	)

	require.ErrorIs(t, err, ErrIO)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpen_InvalidOptions(t *testing.T) {
	_, err := Open(WithPath(""))
	require.Error(t, err)

	_, err = Open(WithLogger(nil))
	require.Error(t, err)
}

func TestPort_ReadWriteAt(t *testing.T) {
	path := newTempPortFile(t, 0x1000)
	p := openTestPort(t, path)

	n, err := p.WriteAt([]byte{0xAA, 0xBB}, 0xE02)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	buf := make([]byte, 3)
	n, err = p.ReadAt(buf, 0xE01)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0x00, 0xAA, 0xBB}, buf)
}

func TestPort_ShortRead(t *testing.T) {
	p := openTestPort(t, newTempPortFile(t, 0x10))

	buf := make([]byte, 8)
	n, err := p.ReadAt(buf, 0x0C)
	assert.Equal(t, 4, n)
	require.ErrorIs(t, err, ErrIO)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
	assert.Equal(t, int64(0x0C), ioErr.Offset)
	assert.Equal(t, 8, ioErr.Want)
	assert.Equal(t, 4, ioErr.Got)
}

func TestPort_CloseIdempotent(t *testing.T) {
	p := openTestPort(t, newTempPortFile(t, 0x10))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.ReadAt(make([]byte, 1), 0)
	require.ErrorIs(t, err, ErrClosed)
	_, err = p.WriteAt([]byte{1}, 0)
	require.ErrorIs(t, err, ErrClosed)
}

func TestIOError_Message(t *testing.T) {
	err := &IOError{Op: "write", Offset: 0xE00, Want: 1, Got: 0}
	assert.Equal(t, "port: short write at 0xE00: 0/1 bytes", err.Error())
	assert.True(t, errors.Is(err, ErrIO))
}
