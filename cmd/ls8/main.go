// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func main() {
	var compile string
	var output string
	var save bool
	var trace bool
	var verbose bool
	var legacyCmp bool
	var tickLimit int
	var step bool
	var dump string

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&output, "o", "", ".ls8 file to write the compiled image to")
	flag.BoolVar(&save, "s", false, "Save compiled image, do not execute")
	flag.BoolVar(&trace, "t", false, "Trace every cycle to stderr")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&legacyCmp, "legacy-cmp", false, "CMP compares the memory cells addressed by its operands")
	flag.IntVar(&tickLimit, "n", emulator.TICK_LIMIT, "Maximum instructions to execute, 0 for no limit")
	flag.BoolVar(&step, "step", false, "Wait for a key press before every instruction")
	flag.StringVar(&dump, "memviz", "", "Write a graphviz dump of the final machine state")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] program.ls8\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "       %v [options] -c program.asm\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	wantArgs := 1
	if len(compile) != 0 {
		wantArgs = 0
	}
	if flag.NArg() != wantArgs {
		flag.Usage()
		os.Exit(EXIT_USAGE)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.LegacyCompare = legacyCmp
	emu.TickLimit = tickLimit

	var prog *cpu.Program
	var err error
	var source string

	if len(compile) != 0 {
		// Compile a new instruction stream.
		source = compile
		prog, err = assemble(compile, emu, verbose)
	} else {
		source = flag.Arg(0)
		prog, err = load(source, verbose)
	}
	if err != nil {
		fatal(source, err)
	}

	if len(output) != 0 {
		err = saveImage(output, prog)
		if err != nil {
			fatal(output, err)
		}
	}

	if save {
		return
	}

	emu.Program = prog
	emu.Tape.Output = os.Stdout

	if trace {
		emu.Tracer = cpu.NewTraceWriter(os.Stderr)
	}

	err = emu.Reset()
	if err != nil {
		fatal(source, err)
	}

	if step {
		err = runStep(emu, trace)
	} else {
		err = emu.Run()
	}

	if len(dump) != 0 {
		dumpErr := writeMemviz(dump, emu)
		if dumpErr != nil {
			log.Printf("%v: %v", dump, dumpErr)
		}
	}

	if err != nil {
		if verbose {
			log.Printf("%v", emu.Cpu.String())
		}
		fatal(source, err)
	}
}

// fatal reports an error, and exits with the matching exit code.
func fatal(source string, err error) {
	log.Printf("%v: %v", source, err)
	os.Exit(exitCode(err))
}

// load reads a program image.
func load(path string, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	ld := &cpu.Loader{Verbose: verbose}
	prog, err = ld.Parse(inf)
	return
}

// assemble compiles an assembly source file.
func assemble(path string, emu *emulator.Emulator, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	return
}

// saveImage writes a program image.
func saveImage(path string, prog *cpu.Program) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	_, err = prog.WriteTo(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}

// writeMemviz dumps the machine state as a graphviz graph.
func writeMemviz(path string, emu *emulator.Emulator) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	state := emu.Cpu.Snapshot()
	memviz.Map(ouf, &state, &emu.Cpu.Memory, emu.Program)

	err = ouf.Close()
	return
}
