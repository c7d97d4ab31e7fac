package protocol

import "fmt"

// Command region placement on the Librem EC.
const (
	// CommandBase is the port offset of the SMFI command region.
	CommandBase = 0xE00
	// CommandRegionSize is the size of the SMFI command region in bytes.
	CommandRegionSize = 0x100

	// DebugBase is the port offset of the SMFI debug console region.
	DebugBase = 0xF00
	// DebugSize is the size of the SMFI debug console region in bytes.
	DebugSize = 0x100
)

// Register offsets relative to the command region base.
const (
	CmdOffset    = 0x00
	ResultOffset = 0x01
	DataOffset   = 0x02
)

// DataSize is the payload window capacity of the default layout.
const DataSize = CommandRegionSize - DataOffset

// Layout locates a command region in the port address space.
type Layout struct {
	// Base is the absolute port offset of the region.
	Base int64
	// Size is the region length in bytes, including the Cmd and Result registers.
	Size int
}

// DefaultLayout is the command region used by Librem EC firmware.
var DefaultLayout = Layout{Base: CommandBase, Size: CommandRegionSize}

// Validate reports whether the layout can hold at least one payload byte.
func (l Layout) Validate() error {
	if l.Base < 0 {
		return fmt.Errorf("protocol: negative region base 0x%X", l.Base)
	}
	if l.Size <= DataOffset {
		return fmt.Errorf("protocol: region size %d leaves no data window", l.Size)
	}

	return nil
}

// Cmd returns the absolute offset of the command register.
func (l Layout) Cmd() int64 { return l.Base + CmdOffset }

// Result returns the absolute offset of the result register.
func (l Layout) Result() int64 { return l.Base + ResultOffset }

// Data returns the absolute offset of the payload window.
func (l Layout) Data() int64 { return l.Base + DataOffset }

// DataCap returns the payload window capacity.
func (l Layout) DataCap() int { return l.Size - DataOffset }

// Clamp bounds n to the payload window capacity.
func (l Layout) Clamp(n int) int {
	if n > l.DataCap() {
		return l.DataCap()
	}

	return n
}
