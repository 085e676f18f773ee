package cpu

// Memory is the flat address space shared by code, data and the stack.
type Memory [MEMORY_SIZE]uint8

// Read returns the cell at addr.
func (mem *Memory) Read(addr uint16) (value uint8, err error) {
	if int(addr) >= len(mem) {
		err = ErrAddressRange
		return
	}

	value = mem[addr]
	return
}

// Write sets the cell at addr.
func (mem *Memory) Write(addr uint16, value uint8) (err error) {
	if int(addr) >= len(mem) {
		err = ErrAddressRange
		return
	}

	mem[addr] = value
	return
}

// Peek reads a cell for diagnostics; addresses past the end read as zero.
func (mem *Memory) Peek(addr uint16) uint8 {
	if int(addr) >= len(mem) {
		return 0
	}
	return mem[addr]
}
