// Package hardware provides the register-bus abstraction for the
// TLV320AIC3204 codec. It defines the Bus interface implemented by the real
// I2C transport, the serial bench bridge, and the mock, plus the pure
// register-map helpers shared by all of them.
package hardware

import "context"

// Register is a codec register address. Register meaning is page-scoped;
// the page is selected by writing the page number to PageSelect on the same
// bus address.
type Register = byte

// Bus performs single-byte register transactions against the codec at its
// fixed bus address. The bus has no notion of pages: a page select is an
// ordinary write to register 0x00, issued by the caller. Implementations
// must be safe for concurrent use, but callers still need their own
// serialization around multi-register sequences (a page select followed by
// dependent accesses must not interleave with another caller).
type Bus interface {
	// Init prepares the transport. Must be called before any other method.
	Init(ctx context.Context) error

	// Write writes a single byte to a register.
	Write(ctx context.Context, reg Register, val byte) error

	// Read reads a single byte from a register.
	Read(ctx context.Context, reg Register) (byte, error)

	// IsReal returns true for a transport talking to physical hardware.
	IsReal() bool

	// Close releases the transport.
	Close()
}
