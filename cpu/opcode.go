package cpu

import (
	"fmt"
)

// Opcode is the first byte of an instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HLT  = Opcode(0b00000001) // HLT
	OP_RET  = Opcode(0b00010001) // RET
	OP_PUSH = Opcode(0b01000101) // PUSH
	OP_POP  = Opcode(0b01000110) // POP
	OP_PRN  = Opcode(0b01000111) // PRN
	OP_CALL = Opcode(0b01010000) // CALL
	OP_JMP  = Opcode(0b01010100) // JMP
	OP_JEQ  = Opcode(0b01010101) // JEQ
	OP_JNE  = Opcode(0b01010110) // JNE
	OP_LDI  = Opcode(0b10000010) // LDI
	OP_MUL  = Opcode(0b10100010) // MUL
	OP_CMP  = Opcode(0b10100111) // CMP
)

// AluOp is an ALU operation selector.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_MUL = AluOp(1) // mul
	ALU_OP_CMP = AluOp(2) // cmp
)

// Operands describes the operand bytes that follow an opcode.
type Operands int

const (
	ARGS_NONE    = Operands(0) // No operands.
	ARGS_REG     = Operands(1) // One register index.
	ARGS_REG_REG = Operands(2) // Two register indices.
	ARGS_REG_IMM = Operands(3) // A register index and an immediate byte.
)

// opcodeArgs is the closed set of known opcodes.
var opcodeArgs = map[Opcode]Operands{
	OP_HLT:  ARGS_NONE,
	OP_RET:  ARGS_NONE,
	OP_PUSH: ARGS_REG,
	OP_POP:  ARGS_REG,
	OP_PRN:  ARGS_REG,
	OP_CALL: ARGS_REG,
	OP_JMP:  ARGS_REG,
	OP_JEQ:  ARGS_REG,
	OP_JNE:  ARGS_REG,
	OP_LDI:  ARGS_REG_IMM,
	OP_MUL:  ARGS_REG_REG,
	OP_CMP:  ARGS_REG_REG,
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeArgs[op]
	return ok
}

// Operands returns the operand layout of the opcode.
func (op Opcode) Operands() Operands {
	return opcodeArgs[op]
}

// Length returns the instruction length in bytes, opcode included.
// The two high bits of the opcode hold the operand count.
func (op Opcode) Length() int {
	return int(op>>6) + 1
}

// Instruction is a decoded opcode with its operand bytes.
type Instruction struct {
	Opcode Opcode
	A      uint8 // First operand.
	B      uint8 // Second operand.
}

// Bytes returns the encoded instruction.
// An invalid opcode encodes as itself alone.
func (inst Instruction) Bytes() []uint8 {
	if !inst.Opcode.Valid() {
		return []uint8{uint8(inst.Opcode)}
	}
	return []uint8{uint8(inst.Opcode), inst.A, inst.B}[:inst.Opcode.Length()]
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() string {
	op := inst.Opcode
	if !op.Valid() {
		return fmt.Sprintf(".db 0x%02x", uint8(op))
	}

	switch op.Operands() {
	case ARGS_REG:
		return fmt.Sprintf("%v R%d", op, inst.A)
	case ARGS_REG_REG:
		return fmt.Sprintf("%v R%d,R%d", op, inst.A, inst.B)
	case ARGS_REG_IMM:
		return fmt.Sprintf("%v R%d,%d", op, inst.A, inst.B)
	}

	return op.String()
}
