// Package ecsim simulates the Librem EC command region behind a port.Transport.
//
// The simulator models the handshake seen by the host: a command byte written
// to the Cmd register stays visible for a configurable number of reads, then
// the command handler runs against the data window and Cmd reads back as idle.
package ecsim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/nica-f/librem-control/port"
	"github.com/nica-f/librem-control/protocol"
)

// ErrOutOfRange is returned for accesses outside the simulated regions.
var ErrOutOfRange = errors.New("ecsim: access outside simulated regions")

// Handler runs when a command completes. data is the live data window.
type Handler func(data []byte)

// Op records one transport access.
type Op struct {
	Write  bool
	Offset int64
	Len    int
}

// EC is a simulated embedded controller. It is safe for concurrent use.
type EC struct {
	mu sync.Mutex

	layout   protocol.Layout
	region   []byte
	debug    []byte
	handlers map[protocol.CommandCode]Handler

	busyPolls int
	pending   int
	stuck     bool
	shortRead int
	closed    bool

	ops             []Op
	cmdReads        int
	cmdWrites       int
	dataReads       int
	dataWrites      int
	lastDataReadLen int
}

var _ port.Transport = (*EC)(nil)

// Option configures an EC.
type Option func(*EC)

// WithLayout places the command region. Default is protocol.DefaultLayout.
func WithLayout(l protocol.Layout) Option {
	return func(ec *EC) { ec.layout = l }
}

// WithBusyPolls sets how many Cmd reads still return the pending command
// before it completes. With n busy polls the host sees idle on read n+1.
func WithBusyPolls(n int) Option {
	return func(ec *EC) { ec.busyPolls = n }
}

// WithStuck makes every command stay pending forever.
func WithStuck() Option {
	return func(ec *EC) { ec.stuck = true }
}

// WithShortRead truncates every data window read by n bytes.
func WithShortRead(n int) Option {
	return func(ec *EC) { ec.shortRead = n }
}

// WithHandler installs the completion handler for code. A nil handler leaves
// the data window untouched, echoing the request payload.
func WithHandler(code protocol.CommandCode, h Handler) Option {
	return func(ec *EC) { ec.handlers[code] = h }
}

// WithBoard answers CmdBoard with a NUL padded string.
func WithBoard(board string) Option {
	return WithHandler(protocol.CmdBoard, StringHandler(board))
}

// WithVersion answers CmdVersion with a NUL padded string.
func WithVersion(version string) Option {
	return WithHandler(protocol.CmdVersion, StringHandler(version))
}

// WithFlash answers CmdSpi read requests from image.
func WithFlash(image []byte) Option {
	return WithHandler(protocol.CmdSpi, FlashHandler(image))
}

// WithConsole fills the debug region with text.
func WithConsole(text string) Option {
	return func(ec *EC) { copy(ec.debug, text) }
}

// New creates a simulated EC that answers probe requests and otherwise
// echoes the data window.
func New(opts ...Option) *EC {
	ec := &EC{
		layout:   protocol.DefaultLayout,
		handlers: map[protocol.CommandCode]Handler{protocol.CmdProbe: ProbeHandler(1)},
		debug:    make([]byte, protocol.DebugSize),
	}
	for _, opt := range opts {
		opt(ec)
	}
	ec.region = make([]byte, ec.layout.Size)

	return ec
}

// NewLibrem creates a simulator preloaded with plausible Librem 14 answers.
func NewLibrem() *EC {
	image := make([]byte, 0x10000)
	copy(image, "LIBREM_EC\x00purism/librem_14\x00scratch+backup image")
	binary.LittleEndian.PutUint32(image[0x40:], 0x76EC0001)

	return New(
		WithBusyPolls(2),
		WithBoard("purism/librem_14"),
		WithVersion("0.1.0-librem"),
		WithFlash(image),
		WithConsole("librem_ec: ready\n"),
	)
}

// StringHandler writes s followed by NUL padding into the data window.
func StringHandler(s string) Handler {
	return func(data []byte) {
		n := copy(data, s)
		clear(data[n:])
	}
}

// ProbeHandler answers the probe command with the 0x76 0xEC signature.
func ProbeHandler(version byte) Handler {
	return func(data []byte) {
		if len(data) >= 3 {
			data[0], data[1], data[2] = 0x76, 0xEC, version
		}
	}
}

// FlashHandler serves SPI read requests of the form [flags, addr LE32] from image.
// Requests without the read flag leave the window untouched.
func FlashHandler(image []byte) Handler {
	return func(data []byte) {
		if len(data) < 5 || !protocol.SpiFlags(data[0]).Has(protocol.SpiRead) {
			return
		}
		addr := int(binary.LittleEndian.Uint32(data[1:5]))
		clear(data)
		if addr < len(image) {
			copy(data, image[addr:])
		}
	}
}

// ReadAt implements io.ReaderAt.
func (ec *EC) ReadAt(b []byte, off int64) (int, error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.closed {
		return 0, port.ErrClosed
	}
	ec.ops = append(ec.ops, Op{Offset: off, Len: len(b)})

	if off == ec.layout.Cmd() && len(b) == 1 {
		ec.cmdReads++
		b[0] = ec.pollLocked()
		return 1, nil
	}

	mem, rel, err := ec.locateLocked(off, len(b))
	if err != nil {
		return 0, err
	}

	want := len(b)
	if off == ec.layout.Data() {
		ec.dataReads++
		ec.lastDataReadLen = want
		want -= ec.shortRead
		if want < 0 {
			want = 0
		}
	}
	n := copy(b[:want], mem[rel:])
	if n < len(b) {
		return n, &port.IOError{Op: "read", Offset: off, Want: len(b), Got: n}
	}

	return n, nil
}

// WriteAt implements io.WriterAt.
func (ec *EC) WriteAt(b []byte, off int64) (int, error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.closed {
		return 0, port.ErrClosed
	}
	ec.ops = append(ec.ops, Op{Write: true, Offset: off, Len: len(b)})

	mem, rel, err := ec.locateLocked(off, len(b))
	if err != nil {
		return 0, err
	}

	if off == ec.layout.Cmd() {
		ec.cmdWrites++
		ec.pending = ec.busyPolls
	}
	if off == ec.layout.Data() {
		ec.dataWrites++
	}

	return copy(mem[rel:], b), nil
}

// Close implements io.Closer.
func (ec *EC) Close() error {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.closed = true

	return nil
}

// pollLocked returns the Cmd register value seen by one host read.
func (ec *EC) pollLocked() byte {
	cmd := ec.region[protocol.CmdOffset]
	if cmd == byte(protocol.CmdNone) || ec.stuck {
		return cmd
	}
	if ec.pending > 0 {
		ec.pending--
		return cmd
	}

	if h := ec.handlers[protocol.CommandCode(cmd)]; h != nil {
		h(ec.region[protocol.DataOffset:])
	}
	ec.region[protocol.CmdOffset] = byte(protocol.CmdNone)
	ec.region[protocol.ResultOffset] = byte(protocol.ResultOk)

	return byte(protocol.CmdNone)
}

func (ec *EC) locateLocked(off int64, n int) ([]byte, int, error) {
	if rel := off - ec.layout.Base; rel >= 0 && rel+int64(n) <= int64(len(ec.region)) {
		return ec.region, int(rel), nil
	}
	if rel := off - protocol.DebugBase; rel >= 0 && rel+int64(n) <= int64(len(ec.debug)) {
		return ec.debug, int(rel), nil
	}

	return nil, 0, fmt.Errorf("%w: 0x%X+%d", ErrOutOfRange, off, n)
}

// SetStuck toggles whether commands stay pending forever.
func (ec *EC) SetStuck(stuck bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.stuck = stuck
}

// Ops returns a copy of the access log.
func (ec *EC) Ops() []Op {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	return append([]Op(nil), ec.ops...)
}

// CmdReads returns the number of Cmd register reads.
func (ec *EC) CmdReads() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.cmdReads
}

// CmdWrites returns the number of Cmd register writes.
func (ec *EC) CmdWrites() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.cmdWrites
}

// DataReads returns the number of reads starting at the data window.
func (ec *EC) DataReads() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.dataReads
}

// DataWrites returns the number of writes starting at the data window.
func (ec *EC) DataWrites() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.dataWrites
}

// LastDataReadLen returns the length requested by the last data window read.
func (ec *EC) LastDataReadLen() int {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.lastDataReadLen
}

// ResetCounters clears the access log and counters.
func (ec *EC) ResetCounters() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.ops = nil
	ec.cmdReads, ec.cmdWrites = 0, 0
	ec.dataReads, ec.dataWrites = 0, 0
	ec.lastDataReadLen = 0
}
