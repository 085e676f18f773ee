package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var errNotTerminal = errors.New(translate.From("-step needs a terminal on stdin"))

// rawWriter restores the carriage return a raw mode terminal no longer adds.
type rawWriter struct {
	w io.Writer
}

func (rw rawWriter) Write(p []byte) (n int, err error) {
	_, err = rw.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return
	}
	n = len(p)
	return
}

// runStep runs the emulator one instruction per key press.
// 'q', escape or ctrl-c stops the run early.
func runStep(emu *emulator.Emulator, trace bool) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		err = errNotTerminal
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	stderr := rawWriter{w: os.Stderr}
	emu.Tape.Output = rawWriter{w: os.Stdout}
	if trace {
		emu.Tracer = cpu.NewTraceWriter(stderr)
	}

	key := make([]byte, 1)
	for {
		fmt.Fprintf(stderr, "%02x: %v\n", emu.Pc(), emu.Instruction())

		_, err = os.Stdin.Read(key)
		if err != nil {
			return
		}
		switch key[0] {
		case 'q', 0x1b, 0x03:
			return
		}

		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
