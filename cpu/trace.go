package cpu

import (
	"fmt"
	"io"
	"strings"
)

// Snapshot is a read-only copy of the machine state taken before a cycle.
type Snapshot struct {
	Pc       uint16                // Address of the next instruction.
	Memory   [3]uint8              // Memory at Pc, Pc+1 and Pc+2.
	Register [REGISTER_COUNT]uint8 // Register bank.
	Flags    Flags                 // Condition flags.
}

// String formats the snapshot as a single trace line.
func (snap Snapshot) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X | %02X %02X %02X |",
		snap.Pc, snap.Memory[0], snap.Memory[1], snap.Memory[2])
	for _, reg := range snap.Register {
		fmt.Fprintf(&sb, " %02X", reg)
	}

	return sb.String()
}

// Tracer observes the machine once per cycle.
type Tracer interface {
	Trace(snap Snapshot)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(snap Snapshot)

func (tf TracerFunc) Trace(snap Snapshot) {
	tf(snap)
}

// NewTraceWriter returns a tracer printing one line per cycle to w.
func NewTraceWriter(w io.Writer) Tracer {
	return TracerFunc(func(snap Snapshot) {
		fmt.Fprintln(w, snap.String())
	})
}

// Snapshot captures the current machine state.
func (cpu *Cpu) Snapshot() (snap Snapshot) {
	snap.Pc = cpu.Pc
	for n := range snap.Memory {
		snap.Memory[n] = cpu.Memory.Peek(cpu.Pc + uint16(n))
	}
	snap.Register = cpu.Register
	snap.Flags = cpu.Flags

	return
}
