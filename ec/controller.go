package ec

import (
	"errors"
	"fmt"

	"github.com/nica-f/librem-control/logger"
	"github.com/nica-f/librem-control/port"
	"github.com/nica-f/librem-control/protocol"
)

// Controller executes EC commands over an exclusively owned transport.
//
// Controller is NOT goroutine-safe; see Guarded.
type Controller struct {
	t       port.Transport
	cfg     *Config
	layout  protocol.Layout
	logger  logger.Logger
	metrics *Metrics
}

// New creates a Controller on t. The Controller does not take ownership of
// closing t unless Close is called.
func New(t port.Transport, opts ...Option) (*Controller, error) {
	if t == nil {
		return nil, ErrTransportNil
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Controller{
		t:       t,
		cfg:     cfg,
		layout:  cfg.layout,
		logger:  cfg.logger.With("component", "ec"),
		metrics: newMetrics(),
	}, nil
}

// Config returns the Controller configuration.
func (c *Controller) Config() *Config { return c.cfg }

// Metrics returns the Controller counters.
func (c *Controller) Metrics() *Metrics { return c.metrics }

// Close closes the underlying transport.
func (c *Controller) Close() error { return c.t.Close() }

// IssueCommand writes code to the Cmd register and polls until the EC
// reports idle.
//
// It returns ErrInvalidCommand for CmdNone without touching the transport,
// an error matching port.ErrIO if a register access fails, and ErrTimeout if
// the register is still busy after PollAttempts reads.
func (c *Controller) IssueCommand(code protocol.CommandCode) error {
	if !code.Sendable() {
		return fmt.Errorf("%w: %s is the idle sentinel", ErrInvalidCommand, code)
	}

	c.metrics.incCommandCount(code)
	if _, err := c.writeAt([]byte{byte(code)}, c.layout.Cmd()); err != nil {
		return fmt.Errorf("ec: issue %s: %w", code, err)
	}

	attempts, err := c.waitIdle()
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			c.metrics.incTimeoutCount()
			c.logger.Warn("command timed out", "code", code, "attempts", attempts)
		}
		return fmt.Errorf("ec: issue %s: %w", code, err)
	}

	c.logger.Debug("command completed", "code", code, "attempts", attempts)

	return nil
}

// waitIdle polls the Cmd register until it reads CmdNone.
// It returns the number of reads performed.
func (c *Controller) waitIdle() (int, error) {
	reg := make([]byte, 1)
	for attempt := 1; attempt <= c.cfg.pollAttempts; attempt++ {
		if _, err := c.readAt(reg, c.layout.Cmd()); err != nil {
			return attempt, err
		}
		c.metrics.incPollCount()

		if protocol.CommandCode(reg[0]) == protocol.CmdNone {
			return attempt, nil
		}
		if attempt < c.cfg.pollAttempts && c.cfg.pollInterval > 0 {
			c.cfg.sleep(c.cfg.pollInterval)
		}
	}

	return c.cfg.pollAttempts, ErrTimeout
}

// CommandStatus would report the Result register of the last command.
// The protocol defines no read-back sequence for it, so it always fails with
// ErrUnimplemented and the returned code carries no meaning.
func (c *Controller) CommandStatus() (protocol.ResultCode, error) {
	return 0, fmt.Errorf("%w: result register read-back", ErrUnimplemented)
}

// ReadData reads up to n bytes from the data window. n is clamped to the
// window capacity. A short transfer returns the bytes received together
// with an error matching port.ErrIO.
func (c *Controller) ReadData(n int) ([]byte, error) {
	n = c.layout.Clamp(n)
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	buf := make([]byte, n)
	got, err := c.ReadDataInto(buf)

	return buf[:got], err
}

// ReadDataInto fills buf from the data window, reading at most the window
// capacity. It returns the number of bytes transferred.
func (c *Controller) ReadDataInto(buf []byte) (int, error) {
	n := c.layout.Clamp(len(buf))
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	got, err := c.readAt(buf[:n], c.layout.Data())
	if err != nil {
		return got, fmt.Errorf("ec: read data: %w", err)
	}
	c.metrics.addBytesIn(got)

	return got, nil
}

// WriteCommand stages payload in the data window, then issues code.
//
// The payload is always written before the command byte. If staging fails the
// command is not issued. If issuing fails, the staged byte count is returned
// along with the error; the EC may or may not have consumed the payload.
func (c *Controller) WriteCommand(code protocol.CommandCode, payload []byte) (int, error) {
	if !code.Sendable() {
		return 0, fmt.Errorf("%w: %s is the idle sentinel", ErrInvalidCommand, code)
	}
	if len(payload) > c.layout.DataCap() {
		return 0, fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(payload), c.layout.DataCap())
	}

	var staged int
	if len(payload) > 0 {
		n, err := c.writeAt(payload, c.layout.Data())
		if err != nil {
			return n, fmt.Errorf("ec: stage %s payload: %w", code, err)
		}
		c.metrics.addBytesOut(n)
		staged = n
	}

	if err := c.IssueCommand(code); err != nil {
		return staged, err
	}

	return staged, nil
}

// readAt performs one positioned read, treating a short transfer as an error.
func (c *Controller) readAt(b []byte, off int64) (int, error) {
	n, err := c.t.ReadAt(b, off)
	if err == nil && n < len(b) {
		err = &port.IOError{Op: "read", Offset: off, Want: len(b), Got: n}
	}
	if err != nil {
		c.metrics.incIOErrCount()
		return n, err
	}

	return n, nil
}

// writeAt performs one positioned write, treating a short transfer as an error.
func (c *Controller) writeAt(b []byte, off int64) (int, error) {
	n, err := c.t.WriteAt(b, off)
	if err == nil && n < len(b) {
		err = &port.IOError{Op: "write", Offset: off, Want: len(b), Got: n}
	}
	if err != nil {
		c.metrics.incIOErrCount()
		return n, err
	}

	return n, nil
}
