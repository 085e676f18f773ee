package main

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func TestExitCode(t *testing.T) {
	assert := assert.New(t)

	_, missing := os.Open("does/not/exist.ls8")
	assert.Error(missing)

	_, syntax := cpu.Load(strings.NewReader("xyz\n"))
	assert.Error(syntax)

	table := [](struct {
		name string
		err  error
		code int
	}){
		{"ok", nil, EXIT_OK},
		{"missing", missing, EXIT_NOT_FOUND},
		{"missing_wrapped", fmt.Errorf("load: %w", fs.ErrNotExist), EXIT_NOT_FOUND},
		{"syntax", syntax, EXIT_USAGE},
		{"opcode", &emulator.ErrRuntime{LineNo: 1, Err: &cpu.ErrFault{Pc: 0, Opcode: 0xff, Err: cpu.ErrOpcodeInvalid}}, EXIT_INSTRUCTION},
		{"stack", &emulator.ErrRuntime{LineNo: 3, Err: &cpu.ErrFault{Pc: 4, Opcode: cpu.OP_POP, Err: cpu.ErrStackEmpty}}, EXIT_FAULT},
		{"tick_limit", &emulator.ErrRuntime{LineNo: 2, Err: emulator.ErrTickLimit}, EXIT_TICK_LIMIT},
	}

	for _, entry := range table {
		assert.Equal(entry.code, exitCode(entry.err), entry.name)
	}
}

func TestExitCode_Program(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	emu.Tape.Output = &strings.Builder{}

	prog, err := cpu.Load(strings.NewReader("11111111\n"))
	assert.NoError(err)
	emu.Program = prog

	assert.NoError(emu.Reset())
	err = emu.Run()
	assert.Equal(EXIT_INSTRUCTION, exitCode(err))
}
