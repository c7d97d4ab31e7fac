package port

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/nica-f/librem-control/logger"
)

// Transport is the byte-addressable channel used by the EC command engine.
// *Port implements it; tests substitute a simulated EC.
type Transport interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// Port is an exclusively owned handle to the port-I/O device.
type Port struct {
	f      file
	path   string
	device string
	closed atomic.Bool
	logger logger.Logger
}

var _ Transport = (*Port)(nil)

// Open checks privileges and device presence, then opens the port device
// for reading and writing.
//
// The checks run in order and stop at the first failure:
//   - ErrPermissionDenied unless the real or effective UID is root.
//   - ErrDeviceNotFound unless one of the ACPI device paths exists.
//     The port device is not opened in this case.
//   - an *IOError (matching ErrIO) if the device cannot be opened.
func Open(opts ...Option) (*Port, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt.apply(o); err != nil {
			return nil, err
		}
	}

	if o.privileged != nil && !o.privileged() {
		return nil, ErrPermissionDenied
	}

	var device string
	if len(o.devicePaths) > 0 {
		var err error
		device, err = DetectDevice(o.stat, o.devicePaths)
		if err != nil {
			return nil, err
		}
		o.logger.Info("Librem EC detected", "acpi", device)
	}

	f, err := o.openFile(o.path)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}

	if o.lock {
		if err := lockFile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("lock %s: %w", o.path, err)
		}
	}

	return &Port{
		f:      f,
		path:   o.path,
		device: device,
		logger: o.logger.With("port", o.path),
	}, nil
}

// Path returns the opened device path.
func (p *Port) Path() string { return p.path }

// Device returns the ACPI node found by the device probe, or "" if the probe was disabled.
func (p *Port) Device() string { return p.device }

// ReadAt reads len(b) bytes starting at the absolute port offset off.
// A short read returns the transferred count and an *IOError.
func (p *Port) ReadAt(b []byte, off int64) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}

	n, err := p.f.ReadAt(b, off)
	if err != nil || n < len(b) {
		p.logger.Warn("port read failed", "offset", off, "want", len(b), "got", n, "error", err)
		return n, &IOError{Op: "read", Offset: off, Want: len(b), Got: n, Err: err}
	}

	return n, nil
}

// WriteAt writes b starting at the absolute port offset off.
// A short write returns the transferred count and an *IOError.
func (p *Port) WriteAt(b []byte, off int64) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}

	n, err := p.f.WriteAt(b, off)
	if err != nil || n < len(b) {
		p.logger.Warn("port write failed", "offset", off, "want", len(b), "got", n, "error", err)
		return n, &IOError{Op: "write", Offset: off, Want: len(b), Got: n, Err: err}
	}

	return n, nil
}

// Close releases the handle and any advisory lock. It is idempotent.
func (p *Port) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	return p.f.Close()
}
