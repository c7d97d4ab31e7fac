// Package protocol defines the register model of the Librem EC command interface.
//
// The EC exposes a shared-memory command region (SMFI) through legacy port I/O.
// Within the region the first byte is the command register, the second byte is
// the result register and the rest is a payload window shared by requests and
// responses:
//
//	offset 0x00  Cmd     write: command code, read: 0 when idle
//	offset 0x01  Result  result code of the last command
//	offset 0x02  Data    command specific payload (Size-2 bytes)
//
// This package holds no state and performs no I/O. See package ec for the
// command engine built on top of it.
package protocol
