// Package ec implements the host side of the Librem EC command protocol.
//
// A Controller drives one command at a time over a port.Transport:
//
//  1. an optional request payload is staged in the data window,
//  2. the command code is written to the Cmd register,
//  3. the Cmd register is polled until it reads back as idle (0),
//  4. an optional response is read from the data window.
//
// Polling is bounded by the configured attempt count and interval
// (100 x 100µs by default). Exhausting it yields ErrTimeout and the
// operation is abandoned without touching the data window.
//
// # Identity
//
// Board and Version return the raw data window after CmdBoard and CmdVersion.
// The bytes are not NUL terminated or validated; use protocol.CString to
// bound them to a string.
//
// # Concurrency
//
// The protocol is synchronous and blocking and offers no way to cancel a poll.
// A Controller performs no locking of its own: exactly one command sequence
// may be in flight per transport. Wrap the Controller in a Guarded to share it
// between goroutines, and open the port with port.WithLock to exclude other
// processes.
package ec
