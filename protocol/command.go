package protocol

import "fmt"

// CommandCode is a value written to the Cmd register.
type CommandCode uint8

// Command codes understood by the EC firmware.
const (
	// CmdNone indicates that the EC is ready to accept commands. It is never sent.
	CmdNone CommandCode = iota
	// CmdProbe probes for the EC command protocol.
	CmdProbe
	// CmdBoard reads the board string.
	CmdBoard
	// CmdVersion reads the firmware version string.
	CmdVersion
	// CmdPrint writes bytes to the EC console.
	CmdPrint
	// CmdSpi accesses the SPI flash chip.
	CmdSpi
	// CmdReset resets the EC.
	CmdReset
	// CmdFanGet gets fan speeds.
	CmdFanGet
	// CmdFanSet sets fan speeds.
	CmdFanSet
	// CmdKeymapGet gets a keyboard map index.
	CmdKeymapGet
	// CmdKeymapSet sets a keyboard map index.
	CmdKeymapSet
	// CmdLedGetValue gets an LED value by index.
	CmdLedGetValue
	// CmdLedSetValue sets an LED value by index.
	CmdLedSetValue
	// CmdLedGetColor gets an LED color by index.
	CmdLedGetColor
	// CmdLedSetColor sets an LED color by index.
	CmdLedSetColor
	// CmdLedGetMode gets the LED matrix mode and speed.
	CmdLedGetMode
	// CmdLedSetMode sets the LED matrix mode and speed.
	CmdLedSetMode
	// CmdMatrixGet gets the key matrix state.
	CmdMatrixGet
	// CmdLedSave saves LED settings to ROM.
	CmdLedSave
)

var commandNames = [...]string{
	CmdNone:        "none",
	CmdProbe:       "probe",
	CmdBoard:       "board",
	CmdVersion:     "version",
	CmdPrint:       "print",
	CmdSpi:         "spi",
	CmdReset:       "reset",
	CmdFanGet:      "fan_get",
	CmdFanSet:      "fan_set",
	CmdKeymapGet:   "keymap_get",
	CmdKeymapSet:   "keymap_set",
	CmdLedGetValue: "led_get_value",
	CmdLedSetValue: "led_set_value",
	CmdLedGetColor: "led_get_color",
	CmdLedSetColor: "led_set_color",
	CmdLedGetMode:  "led_get_mode",
	CmdLedSetMode:  "led_set_mode",
	CmdMatrixGet:   "matrix_get",
	CmdLedSave:     "led_save",
}

// String returns the command name, or a hex form for unknown codes.
func (c CommandCode) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}

	return fmt.Sprintf("cmd(0x%02X)", uint8(c))
}

// IsKnown reports whether c is one of the defined command codes.
func (c CommandCode) IsKnown() bool {
	return int(c) < len(commandNames)
}

// Sendable reports whether c may be written to the Cmd register.
// CmdNone is the idle sentinel and is never sent.
func (c CommandCode) Sendable() bool {
	return c != CmdNone
}

// ResultCode is the value of the Result register after a command.
type ResultCode uint8

const (
	// ResultOk means the command executed successfully.
	ResultOk ResultCode = 0
	// ResultErr means the command failed with a generic error.
	ResultErr ResultCode = 1
)

func (r ResultCode) String() string {
	switch r {
	case ResultOk:
		return "ok"
	case ResultErr:
		return "err"
	default:
		return fmt.Sprintf("result(0x%02X)", uint8(r))
	}
}
