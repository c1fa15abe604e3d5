// Package io provides I/O port devices for the SAP-3 emulator, and the
// text program image formats.
//
// Ports are byte-wide. The IN instruction reads a byte from a port into
// the accumulator; the OUT instruction writes the accumulator to a port.
// Devices include switch/LED latches (Latch), a formatted output display
// (Display), and sequential byte streams (Tape).
package io

// Port defines the interface for all I/O port devices.
type Port interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// In reads a byte from the device.
	In() (value byte, err error)
	// Out writes a byte to the device.
	Out(value byte) error
}
