package cpu

// The stack lives in memory below the stack base, and r7 points at the
// current top. It may grow down until it would overwrite the loaded image.

// push decrements the stack pointer and stores value at the new top.
func (cpu *Cpu) push(value uint8) (err error) {
	sp := uint16(cpu.Register[REG_SP])
	if sp == 0 || sp-1 < cpu.codeEnd {
		err = ErrStackFull
		return
	}

	sp--
	err = cpu.Memory.Write(sp, value)
	if err != nil {
		return
	}
	cpu.Register[REG_SP] = uint8(sp)

	return
}

// pop loads the value at the top of the stack and increments the stack
// pointer.
func (cpu *Cpu) pop() (value uint8, err error) {
	value, ok := cpu.StackPeek()
	if !ok {
		err = ErrStackEmpty
		return
	}

	cpu.Register[REG_SP]++

	return
}

// StackPeek returns the value on top of the stack.
func (cpu *Cpu) StackPeek() (value uint8, ok bool) {
	if cpu.StackEmpty() {
		return
	}

	return cpu.Memory[cpu.Register[REG_SP]], true
}

// StackEmpty returns true if nothing has been pushed above the stack base.
func (cpu *Cpu) StackEmpty() bool {
	return cpu.Register[REG_SP] >= cpu.stackBase
}

// StackDepth returns the number of bytes on the stack.
func (cpu *Cpu) StackDepth() int {
	if cpu.StackEmpty() {
		return 0
	}
	return int(cpu.stackBase) - int(cpu.Register[REG_SP])
}

// StackBase returns the address the stack grows down from.
func (cpu *Cpu) StackBase() uint8 {
	return cpu.stackBase
}
