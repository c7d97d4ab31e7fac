package ec

import (
	"fmt"

	"github.com/nica-f/librem-control/protocol"
)

// Probe response signature.
const (
	ProbeSignature0 = 0x76
	ProbeSignature1 = 0xEC

	probeSize = 3
)

// Identity holds the decoded EC identity strings.
// A field is empty if its query failed.
type Identity struct {
	Board   string
	Version string
}

// ProbeInfo is the decoded response of CmdProbe.
type ProbeInfo struct {
	// Version is the EC command protocol version.
	Version uint8
}

// Board returns the raw data window after CmdBoard.
func (c *Controller) Board() ([]byte, error) {
	return c.query(protocol.CmdBoard)
}

// Version returns the raw data window after CmdVersion.
func (c *Controller) Version() ([]byte, error) {
	return c.query(protocol.CmdVersion)
}

// Identify queries board and version. It stops at the first failure and
// leaves the remaining fields empty; fields read before the failure are kept.
func (c *Controller) Identify() (Identity, error) {
	var id Identity

	board, err := c.Board()
	if err != nil {
		return id, fmt.Errorf("board: %w", err)
	}
	id.Board = protocol.CString(board)

	version, err := c.Version()
	if err != nil {
		return id, fmt.Errorf("version: %w", err)
	}
	id.Version = protocol.CString(version)

	return id, nil
}

// Probe checks that the EC speaks the command protocol.
func (c *Controller) Probe() (ProbeInfo, error) {
	if err := c.IssueCommand(protocol.CmdProbe); err != nil {
		return ProbeInfo{}, err
	}

	data, err := c.ReadData(probeSize)
	if err != nil {
		return ProbeInfo{}, err
	}
	if len(data) < probeSize {
		return ProbeInfo{}, fmt.Errorf("%w: %d byte response", ErrBadProbe, len(data))
	}
	if data[0] != ProbeSignature0 || data[1] != ProbeSignature1 {
		return ProbeInfo{}, fmt.Errorf("%w: got 0x%02X 0x%02X", ErrBadProbe, data[0], data[1])
	}

	return ProbeInfo{Version: data[2]}, nil
}

// ReadConsole returns the raw EC debug console region.
//
// The debug region is fixed at protocol.DebugBase and does not follow the
// command region placement set with WithLayout.
func (c *Controller) ReadConsole() ([]byte, error) {
	buf := make([]byte, protocol.DebugSize)
	n, err := c.readAt(buf, protocol.DebugBase)
	if err != nil {
		return buf[:n], fmt.Errorf("ec: read console: %w", err)
	}
	c.metrics.addBytesIn(n)

	return buf, nil
}

// query issues code and returns the full data window. No data is read if the
// command fails.
func (c *Controller) query(code protocol.CommandCode) ([]byte, error) {
	if err := c.IssueCommand(code); err != nil {
		return nil, err
	}

	data, err := c.ReadData(c.layout.DataCap())
	if err != nil {
		return nil, err
	}

	return data, nil
}
