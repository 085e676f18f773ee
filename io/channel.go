// Package io provides the I/O channels of the LS-8 emulator.
// The boot ROM (Rom) is the source the CPU loads its memory image from at
// reset, and the console Tape is the sink the PRN instruction prints to.
package io

import (
	"iter"
)

// Source is a channel the CPU reads bytes from.
type Source interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields bytes from the channel.
	Receive() iter.Seq[uint8]
}

// Sink is a channel the CPU writes bytes to.
type Sink interface {
	// Send writes a single byte to the channel.
	Send(value uint8) error
}
