package io

import (
	"io"
	"strconv"
)

// Tape is the console output of the machine. Every byte sent is written to
// Output as its decimal value followed by a newline.
type Tape struct {
	Output io.Writer

	sent int
}

var _ Sink = (*Tape)(nil)

// Send prints a value to the tape output.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	line := strconv.AppendUint(nil, uint64(value), 10)
	line = append(line, '\n')

	_, err = tc.Output.Write(line)
	if err != nil {
		return
	}

	tc.sent++

	return
}

// Sent returns the number of values printed since the last Rewind.
func (tc *Tape) Sent() int {
	return tc.sent
}

// Rewind clears the printed value counter.
func (tc *Tape) Rewind() {
	tc.sent = 0
}
