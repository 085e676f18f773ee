package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"REG_SP":      fmt.Sprintf("%v", REG_SP),
	"SP_INIT":     fmt.Sprintf("0x%x", SP_INIT),
	"FL_E":        fmt.Sprintf("0b%03b", uint8(FL_E)),
	"FL_G":        fmt.Sprintf("0b%03b", uint8(FL_G)),
	"FL_L":        fmt.Sprintf("0b%03b", uint8(FL_L)),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose       bool   // Set to enable verbose logging.
	LegacyCompare bool   // Set to have CMP compare the memory cells addressed by its operands.
	Tracer        Tracer // If set, observes the machine before every cycle.

	Memory   Memory                // Main memory.
	Register [REGISTER_COUNT]uint8 // Register bank; r7 is the stack pointer.
	Flags    Flags                 // Result of the last comparison.
	Pc       uint16                // Address of the next instruction.
	Halted   bool                  // Set once the CPU stops executing.

	Ticks int // Instructions executed since reset.

	console   io.Sink // PRN output.
	stackBase uint8   // Address the stack grows down from.
	codeEnd   uint16  // First address past the loaded image.
}

// NewCpu creates a new CPU in its reset state, with no program loaded.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Register[REG_SP] = SP_INIT
	cpu.stackBase = SP_INIT

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// SetConsole sets the channel PRN prints to.
func (cpu *Cpu) SetConsole(console io.Sink) {
	cpu.console = console
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.Flags)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02x\n", fmt.Sprintf("r%d", n), val)
	}
	var strval string
	val, ok := cpu.StackPeek()
	if ok {
		strval = fmt.Sprintf("%02x", val)
	} else {
		strval = "--"
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", strval)

	return
}

// Reset the CPU state.
// - Clears memory, registers and flags.
// - Sets the stack pointer to SP_INIT.
// - Loads the boot channel into memory, starting at address 0.
// - Sets the PC to 0.
func (cpu *Cpu) Reset(boot io.Source) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.codeEnd = 0

	cpu.Register[REG_SP] = SP_INIT
	cpu.stackBase = SP_INIT

	if boot == nil {
		return
	}

	boot.Rewind()
	for value := range boot.Receive() {
		if int(cpu.codeEnd) >= len(cpu.Memory) {
			err = ErrProgramSize
			return
		}
		cpu.Memory[cpu.codeEnd] = value
		cpu.codeEnd++
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", cpu.codeEnd)
	}

	return
}

// Fetch decodes the instruction at the PC.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	opcode, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	inst.Opcode = Opcode(opcode)
	if !inst.Opcode.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	operands := [2](*uint8){&inst.A, &inst.B}
	for n := 1; n < inst.Opcode.Length(); n++ {
		*operands[n-1], err = cpu.Memory.Read(cpu.Pc + uint16(n))
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Tracer != nil {
		cpu.Tracer.Trace(cpu.Snapshot())
	}

	inst, err := cpu.Fetch()
	if err != nil {
		cpu.Halted = true
		if cpu.Verbose {
			log.Printf("%02x: fetch: %v", cpu.Pc, err)
		}
		err = &ErrFault{Pc: cpu.Pc, Opcode: inst.Opcode, Err: err}
		return
	}

	err = cpu.Execute(inst)
	return
}

// Execute executes a single decoded instruction at the PC.
// Any fault halts the CPU.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			cpu.Halted = true
			err = &ErrFault{Pc: cpu.Pc, Opcode: inst.Opcode, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, inst)
	}

	next_pc := cpu.Pc + uint16(inst.Opcode.Length())

	switch inst.Opcode {
	case OP_HLT:
		cpu.Halted = true
		next_pc = cpu.Pc
	case OP_LDI:
		err = cpu.setRegister(inst.A, inst.B)
	case OP_PRN:
		var val uint8
		val, err = cpu.getRegister(inst.A)
		if err != nil {
			return
		}
		if cpu.console == nil {
			err = ErrChannelInvalid
			return
		}
		err = cpu.console.Send(val)
	case OP_MUL:
		err = cpu.aluRegisters(ALU_OP_MUL, inst.A, inst.B)
	case OP_CMP:
		if cpu.LegacyCompare {
			cpu.doAlu(ALU_OP_CMP, cpu.Memory[inst.A], cpu.Memory[inst.B])
		} else {
			err = cpu.aluRegisters(ALU_OP_CMP, inst.A, inst.B)
		}
	case OP_PUSH:
		var val uint8
		val, err = cpu.getRegister(inst.A)
		if err != nil {
			return
		}
		err = cpu.push(val)
	case OP_POP:
		err = checkRegister(inst.A)
		if err != nil {
			return
		}
		var val uint8
		val, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.setRegister(inst.A, val)
	case OP_CALL:
		var target uint8
		target, err = cpu.getRegister(inst.A)
		if err != nil {
			return
		}
		if next_pc >= MEMORY_SIZE {
			err = ErrReturnAddress
			return
		}
		err = cpu.push(uint8(next_pc))
		if err != nil {
			return
		}
		next_pc = uint16(target)
	case OP_RET:
		var target uint8
		target, err = cpu.pop()
		if err != nil {
			return
		}
		next_pc = uint16(target)
	case OP_JMP, OP_JEQ, OP_JNE:
		var target uint8
		target, err = cpu.getRegister(inst.A)
		if err != nil {
			return
		}
		taken := true
		switch inst.Opcode {
		case OP_JEQ:
			taken = cpu.Flags.Equal()
		case OP_JNE:
			taken = !cpu.Flags.Equal()
		}
		if taken {
			next_pc = uint16(target)
		}
	default:
		err = ErrOpcodeInvalid
		return
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// checkRegister verifies a register index operand.
func checkRegister(index uint8) (err error) {
	if int(index) >= REGISTER_COUNT {
		err = ErrRegisterInvalid
	}
	return
}

// getRegister returns the value of a register operand.
func (cpu *Cpu) getRegister(index uint8) (value uint8, err error) {
	err = checkRegister(index)
	if err != nil {
		return
	}

	value = cpu.Register[index]
	return
}

// setRegister writes a register operand.
// Writing the stack pointer relocates the stack to the new address.
func (cpu *Cpu) setRegister(index uint8, value uint8) (err error) {
	err = checkRegister(index)
	if err != nil {
		return
	}

	cpu.Register[index] = value
	if index == REG_SP {
		if cpu.Verbose {
			log.Printf("cpu: stack relocated to 0x%02x", value)
		}
		cpu.stackBase = value
	}

	return
}

// aluRegisters applies an ALU operation to two register operands, storing
// any result in the first.
func (cpu *Cpu) aluRegisters(op AluOp, reg_a, reg_b uint8) (err error) {
	a, err := cpu.getRegister(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.getRegister(reg_b)
	if err != nil {
		return
	}

	output := cpu.doAlu(op, a, b)
	if op == ALU_OP_CMP {
		return
	}

	err = cpu.setRegister(reg_a, output)
	return
}

// doAlu performs the requested ALU action, and returns the output value.
// Results are truncated to 8 bits; CMP only updates the flags.
func (cpu *Cpu) doAlu(op AluOp, a uint8, b uint8) (output uint8) {
	switch op {
	case ALU_OP_ADD: // add
		output = a + b
	case ALU_OP_MUL: // mul
		output = a * b
	case ALU_OP_CMP: // cmp
		cpu.Flags = compareFlags(a, b)
	default:
		panic("unknown ALU operation " + op.String())
	}

	return
}
