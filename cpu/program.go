package cpu

import (
	"fmt"
	"io"
	"iter"
)

// Statement is a line of source with the bytes it placed in memory.
type Statement struct {
	LineNo int     // Source line number.
	Addr   int     // Memory address of the first byte.
	Text   string  // Source text, without comments.
	Bytes  []uint8 // Generated bytes.
}

// Program is a memory image together with its source listing.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement that generated the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(addr) >= st.Addr && int(addr) < st.Addr+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr) - st.Addr,
			}
			break
		}
	}

	return
}

// Size returns the number of bytes the program occupies, from address 0.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		size = max(size, st.Addr+len(st.Bytes))
	}
	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for addr, value := range prog.Bytes() {
		bins[addr] = value
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, value uint8) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(uint16(st.Addr+n), value) {
					return
				}
			}
		}
	}
}

// WriteTo writes the program as a text image: one binary literal per line,
// with the source of each statement as a comment on its first byte.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	for _, st := range prog.Statements {
		for index, value := range st.Bytes {
			var line string
			if index == 0 && len(st.Text) != 0 {
				line = fmt.Sprintf("%08b # %v\n", value, st.Text)
			} else {
				line = fmt.Sprintf("%08b\n", value)
			}
			var written int
			written, err = io.WriteString(w, line)
			n += int64(written)
			if err != nil {
				return
			}
		}
	}

	return
}
