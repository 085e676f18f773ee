package main

import (
	"errors"
	"io/fs"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

// Process exit codes.
const (
	EXIT_OK          = 0 // Halted normally.
	EXIT_USAGE       = 1 // Bad command line, or a malformed image.
	EXIT_NOT_FOUND   = 2 // Program file missing.
	EXIT_INSTRUCTION = 3 // Unrecognized opcode.
	EXIT_FAULT       = 4 // Any other runtime fault.
	EXIT_TICK_LIMIT  = 5 // Program ran past the tick limit.
)

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var runtime *emulator.ErrRuntime

	switch {
	case err == nil:
		return EXIT_OK
	case errors.Is(err, fs.ErrNotExist):
		return EXIT_NOT_FOUND
	case errors.Is(err, cpu.ErrOpcodeInvalid):
		return EXIT_INSTRUCTION
	case errors.Is(err, emulator.ErrTickLimit):
		return EXIT_TICK_LIMIT
	case errors.As(err, &runtime):
		return EXIT_FAULT
	default:
		return EXIT_USAGE
	}
}
