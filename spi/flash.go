// Package spi encodes SPI flash access requests for the EC CmdSpi command.
//
// A request is a flag byte followed by a 4-byte little-endian address:
//
//	[flags][addr0][addr1][addr2][addr3]
//
// It is staged in the data window together with CmdSpi; for reads the flash
// content is then returned in the same window. Only the read path is
// implemented. Write and erase are extension points that report
// ec.ErrUnimplemented.
package spi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/nica-f/librem-control/ec"
	"github.com/nica-f/librem-control/protocol"
)

const (
	// RequestSize is the encoded size of a Request.
	RequestSize = 5

	// DumpSize is the number of bytes returned by Flash.Dump.
	DumpSize = 0x60
)

// ErrNotRead indicates a Read call with a request lacking protocol.SpiRead.
var ErrNotRead = errors.New("spi: request is not a read")

// Request is the payload of a CmdSpi command.
type Request struct {
	Flags   protocol.SpiFlags
	Address uint32
}

// MarshalBinary encodes r as [flags, address LE32].
func (r Request) MarshalBinary() ([]byte, error) {
	b := make([]byte, RequestSize)
	b[0] = byte(r.Flags)
	binary.LittleEndian.PutUint32(b[1:], r.Address)

	return b, nil
}

// DumpRequest reads the scratch/backup region from offset 0.
func DumpRequest() Request {
	return Request{Flags: protocol.SpiRead | protocol.SpiScratch | protocol.SpiBackup}
}

// ResetRequest disables the SPI chip. Read, scratch and backup bits are clear.
func ResetRequest() Request {
	return Request{Flags: protocol.SpiDisable}
}

// WriteRequest addresses a write at addr. All flag bits are clear.
func WriteRequest(addr uint32) Request {
	return Request{Address: addr}
}

// Commander is the subset of *ec.Controller used for flash access.
type Commander interface {
	WriteCommand(code protocol.CommandCode, payload []byte) (int, error)
	ReadData(n int) ([]byte, error)
}

// Flash reads SPI flash through the EC.
type Flash struct {
	c Commander
}

// New creates a Flash on c.
func New(c Commander) *Flash {
	return &Flash{c: c}
}

// Read issues req and returns up to n bytes of raw flash content.
// n is clamped to the data window. If the command fails, no data is read.
func (f *Flash) Read(req Request, n int) ([]byte, error) {
	if !req.Flags.Has(protocol.SpiRead) {
		return nil, fmt.Errorf("%w: flags %s", ErrNotRead, req.Flags)
	}

	payload, err := req.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if _, err := f.c.WriteCommand(protocol.CmdSpi, payload); err != nil {
		return nil, fmt.Errorf("spi: read request at 0x%X: %w", req.Address, err)
	}

	data, err := f.c.ReadData(n)
	if err != nil {
		return nil, fmt.Errorf("spi: read response: %w", err)
	}

	return data, nil
}

// Dump returns the first DumpSize bytes of the scratch/backup region.
func (f *Flash) Dump() ([]byte, error) {
	return f.Read(DumpRequest(), DumpSize)
}

// Write is reserved for flash programming. It would stage WriteRequest(addr)
// followed by data; no EC side behavior is defined for it yet.
func (f *Flash) Write(addr uint32, data []byte) error {
	return fmt.Errorf("%w: spi write of %d bytes at 0x%X", ec.ErrUnimplemented, len(data), addr)
}

// Erase is reserved for flash erasing.
func (f *Flash) Erase(addr uint32) error {
	return fmt.Errorf("%w: spi erase at 0x%X", ec.ErrUnimplemented, addr)
}

// Printable renders b for display: bytes 32..127 as themselves, others as '.'.
func Printable(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c > 31 && c < 128 {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}

	return sb.String()
}
