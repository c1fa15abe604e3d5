package register

import (
	"github.com/ezrec/sap3/memory"
)

// Pointer supplies the address used by an Indirect register.
type Pointer interface {
	Value() uint16
}

// Indirect is a pseudo-register whose storage is the memory cell
// addressed by a pointer register.
type Indirect struct {
	name    string
	Memory  *memory.Memory
	Pointer Pointer
}

var _ Cell = (*Indirect)(nil)

// NewIndirect creates a pseudo-register over mem addressed by pointer.
func NewIndirect(name string, mem *memory.Memory, pointer Pointer) (ind *Indirect) {
	ind = &Indirect{
		name:    name,
		Memory:  mem,
		Pointer: pointer,
	}

	return
}

// Name returns the diagnostic name of the pseudo-register.
func (ind *Indirect) Name() string {
	return ind.name
}

// Width is the width of a memory cell.
func (ind *Indirect) Width() uint {
	return ind.Memory.Width()
}

// Address returns the memory address currently selected.
func (ind *Indirect) Address() int {
	return int(ind.Pointer.Value())
}

// Read returns the memory cell at the pointer's address.
func (ind *Indirect) Read() (value uint16, err error) {
	data, err := ind.Memory.Read(ind.Address())
	value = uint16(data)
	return
}

// Write stores value into the memory cell at the pointer's address.
func (ind *Indirect) Write(value int) (carry bool, err error) {
	limit := int(maxOf(ind.Width()))
	err = ind.Memory.Write(ind.Address(), value)
	if err != nil {
		return
	}
	carry = value < 0 || value > limit
	return
}
