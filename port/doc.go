// Package port provides exclusive, offset-addressed access to the legacy
// port-I/O space through /dev/port.
//
// Open performs the precondition checks required before touching EC registers:
// the process must run with real or effective UID 0, and a Librem EC ACPI
// device must be present. Only then is the channel opened for read and write.
//
// A Port has no protocol knowledge. Every ReadAt and WriteAt is one positioned
// system call, so register accesses are never batched or reordered.
//
// A Port is owned by a single caller and is not safe for concurrent command
// sequences; see package ec for the serialization helpers.
package port
