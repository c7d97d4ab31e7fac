package protocol

import "strings"

// SpiFlags is the first payload byte of a CmdSpi request.
type SpiFlags uint8

const (
	// SpiRead reads from the SPI chip if set, writes otherwise.
	SpiRead SpiFlags = 1 << 0
	// SpiDisable disables the SPI chip after executing the command.
	SpiDisable SpiFlags = 1 << 1
	// SpiScratch runs EC firmware from scratch RAM if necessary.
	SpiScratch SpiFlags = 1 << 2
	// SpiBackup accesses the backup ROM instead of the primary one.
	SpiBackup SpiFlags = 1 << 3
)

// Has reports whether all bits of mask are set in f.
func (f SpiFlags) Has(mask SpiFlags) bool {
	return f&mask == mask
}

func (f SpiFlags) String() string {
	if f == 0 {
		return "write"
	}

	var parts []string
	for _, fl := range []struct {
		bit  SpiFlags
		name string
	}{
		{SpiRead, "read"},
		{SpiDisable, "disable"},
		{SpiScratch, "scratch"},
		{SpiBackup, "backup"},
	} {
		if f.Has(fl.bit) {
			parts = append(parts, fl.name)
		}
	}
	if rest := f &^ (SpiRead | SpiDisable | SpiScratch | SpiBackup); rest != 0 {
		parts = append(parts, "unknown")
	}

	return strings.Join(parts, "|")
}
