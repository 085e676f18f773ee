package cpu

// Flags is the condition register, laid out as 0b00000LGE.
type Flags uint8

const (
	FL_E = Flags(0b001) // Equal.
	FL_G = Flags(0b010) // Greater than.
	FL_L = Flags(0b100) // Less than.
)

// compareFlags returns the flags for a comparison of a against b.
// Exactly one flag is set.
func compareFlags(a, b uint8) Flags {
	switch {
	case a < b:
		return FL_L
	case a > b:
		return FL_G
	default:
		return FL_E
	}
}

// Equal reports whether the last comparison was equal.
func (fl Flags) Equal() bool {
	return fl&FL_E != 0
}

// Less reports whether the last comparison was less than.
func (fl Flags) Less() bool {
	return fl&FL_L != 0
}

// Greater reports whether the last comparison was greater than.
func (fl Flags) Greater() bool {
	return fl&FL_G != 0
}

// String returns the flags as a labelled bit pattern, upper case when set.
func (fl Flags) String() string {
	bits := []byte("lge")
	if fl.Less() {
		bits[0] = 'L'
	}
	if fl.Greater() {
		bits[1] = 'G'
	}
	if fl.Equal() {
		bits[2] = 'E'
	}
	return string(bits)
}
