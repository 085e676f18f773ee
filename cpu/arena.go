package cpu

const (
	MEMORY_SIZE    = 256  // Number of addressable memory cells.
	REGISTER_COUNT = 8    // Number of general-purpose registers.
	REG_SP         = 7    // Register holding the stack pointer.
	SP_INIT        = 0xf3 // Stack pointer after reset; the stack grows down.
)
