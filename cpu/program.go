package cpu

import (
	"iter"
)

// Link is a reference to a label, resolved after assembly.
type Link struct {
	Label  string // Label name.
	Offset int    // Offset into the opcode's bytes.
	Size   int    // 1 for a byte, 2 for a little-endian word.
}

// Opcode is an assembled source line.
type Opcode struct {
	LineNo  int      // Source line number.
	Address int      // Address of the first byte.
	Words   []string // Source words, after equate substitution.
	Bytes   []byte   // Assembled bytes.
	Links   []Link   // Label references to resolve into Bytes.
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(address) >= op.Address && int(address) < op.Address+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address) - op.Address,
			}
			break
		}
	}

	return
}

// Bytes iterates over every assembled byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(address uint16, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(uint16(op.Address+n), value) {
					return
				}
			}
		}
	}
}

// Image returns the program as a contiguous memory image, starting at the
// lowest assembled address. Gaps are zero filled.
func (prog *Program) Image() (start uint16, data []byte) {
	low, high := -1, -1
	for _, op := range prog.Opcodes {
		if len(op.Bytes) == 0 {
			continue
		}
		if low < 0 || op.Address < low {
			low = op.Address
		}
		end := op.Address + len(op.Bytes)
		if end > high {
			high = end
		}
	}

	if low < 0 {
		return
	}

	start = uint16(low)
	data = make([]byte, high-low)
	for _, op := range prog.Opcodes {
		if len(op.Bytes) == 0 {
			continue
		}
		copy(data[op.Address-low:], op.Bytes)
	}

	return
}
