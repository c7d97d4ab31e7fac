package ec

import "errors"

var (
	// ErrTimeout indicates that the Cmd register never read back as idle within
	// the poll budget. The EC state is undefined afterwards.
	ErrTimeout = errors.New("ec: command timeout")

	// ErrUnimplemented indicates an operation without defined wire behavior.
	ErrUnimplemented = errors.New("ec: not implemented")

	// ErrInvalidCommand indicates an attempt to send the idle sentinel CmdNone.
	ErrInvalidCommand = errors.New("ec: invalid command")

	// ErrPayloadTooLarge indicates a request payload larger than the data window.
	ErrPayloadTooLarge = errors.New("ec: payload exceeds data window")

	// ErrInvalidLength indicates a non-positive data transfer length.
	ErrInvalidLength = errors.New("ec: invalid data length")

	// ErrBadProbe indicates a probe response without the EC protocol signature.
	ErrBadProbe = errors.New("ec: probe signature mismatch")

	// ErrTransportNil indicates that a nil transport was provided.
	ErrTransportNil = errors.New("ec: transport is nil")
)
