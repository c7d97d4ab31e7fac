// Package report renders EC query results for presentation as plain text,
// YAML or CBOR.
package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nica-f/librem-control/ec"
	"github.com/nica-f/librem-control/protocol"
	"github.com/nica-f/librem-control/spi"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatYAML, FormatCBOR:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("report: unknown format %q", name)
	}
}

// Texter renders a report as human readable text.
type Texter interface {
	WriteText(w io.Writer) error
}

// Header identifies a single report.
type Header struct {
	ID   string    `yaml:"id" cbor:"id"`
	Time time.Time `yaml:"time" cbor:"time"`
}

func newHeader() Header {
	return Header{ID: uuid.NewString(), Time: time.Now().UTC()}
}

// Identity reports the EC board and version strings.
type Identity struct {
	Header  `yaml:",inline"`
	Board   string `yaml:"board" cbor:"board"`
	Version string `yaml:"version" cbor:"version"`
	// Protocol is the probe protocol version, 0 if unknown.
	Protocol uint8 `yaml:"protocol,omitempty" cbor:"protocol,omitempty"`
}

// NewIdentity creates an identity report.
func NewIdentity(id ec.Identity, protocolVersion uint8) *Identity {
	return &Identity{
		Header:   newHeader(),
		Board:    id.Board,
		Version:  id.Version,
		Protocol: protocolVersion,
	}
}

func (r *Identity) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Board  : %s\nVersion: %s\n", r.Board, r.Version)
	if err == nil && r.Protocol != 0 {
		_, err = fmt.Fprintf(w, "Proto  : %d\n", r.Protocol)
	}

	return err
}

// FlashDump reports raw SPI flash content.
type FlashDump struct {
	Header  `yaml:",inline"`
	Flags   string `yaml:"flags" cbor:"flags"`
	Address uint32 `yaml:"address" cbor:"address"`
	Data    []byte `yaml:"data" cbor:"data"`
}

// NewFlashDump creates a flash dump report.
func NewFlashDump(req spi.Request, data []byte) *FlashDump {
	return &FlashDump{
		Header:  newHeader(),
		Flags:   req.Flags.String(),
		Address: req.Address,
		Data:    data,
	}
}

func (r *FlashDump) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "SPI first 0x%X at 0x%X (%s):\n%s\n%s",
		len(r.Data), r.Address, r.Flags, spi.Printable(r.Data), hex.Dump(r.Data))

	return err
}

// Console reports the EC debug console region.
type Console struct {
	Header `yaml:",inline"`
	Text   string `yaml:"text" cbor:"text"`
}

// NewConsole creates a console report from the raw debug region.
func NewConsole(raw []byte) *Console {
	return &Console{Header: newHeader(), Text: protocol.CString(raw)}
}

func (r *Console) WriteText(w io.Writer) error {
	text := r.Text
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)

	return err
}

// Encode writes r to w in format f.
func Encode(w io.Writer, f Format, r Texter) error {
	switch f {
	case FormatText, "":
		return r.WriteText(w)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("report: yaml: %w", err)
		}
		return enc.Close()
	case FormatCBOR:
		if err := cbor.NewEncoder(w).Encode(r); err != nil {
			return fmt.Errorf("report: cbor: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("report: unknown format %q", f)
	}
}
