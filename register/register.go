// Package register implements the register family of the SAP-3 computer.
//
// A Register is a fixed-width storage cell whose value is masked to its
// width on every assignment. A Pair is a double-width view over two
// registers, an Indirect is a view of the memory cell addressed by a
// pointer register, and Flags packs named condition bits into one byte.
// All of them satisfy Cell, so instruction handlers can treat the memory
// pseudo-register M like any other operand.
package register

import (
	"fmt"

	"github.com/ezrec/sap3/memory"
)

// Cell is a named, fixed-width value holder.
type Cell interface {
	// Name returns the diagnostic name of the cell.
	Name() string
	// Width returns the width of the cell in bits.
	Width() uint
	// Read returns the current value of the cell.
	Read() (value uint16, err error)
	// Write masks value to the cell's width and stores it. The carry
	// result is set if value was outside the cell's range.
	Write(value int) (carry bool, err error)
}

// Register is a fixed-width storage cell.
type Register struct {
	name  string
	width uint
	value uint16
}

var _ Cell = (*Register)(nil)

// New creates a register of width bits. Width must be in [1, 16].
func New(name string, width uint) (reg *Register) {
	if width == 0 || width > 16 {
		panic(fmt.Sprintf("register %v: invalid width %v", name, width))
	}

	reg = &Register{
		name:  name,
		width: width,
	}

	return
}

// Name returns the diagnostic name of the register.
func (reg *Register) Name() string {
	return reg.name
}

// Width returns the width of the register in bits.
func (reg *Register) Width() uint {
	return reg.width
}

// Max returns the largest value the register can hold.
func (reg *Register) Max() uint16 {
	return maxOf(reg.width)
}

func maxOf(width uint) uint16 {
	return uint16((1 << width) - 1)
}

// Value returns the current value.
func (reg *Register) Value() uint16 {
	return reg.value
}

// Set masks value to the register's width and stores it.
// Returns true if value was outside of [0, Max()].
func (reg *Register) Set(value int) (carry bool) {
	limit := int(reg.Max())
	reg.value = uint16(value & limit)
	carry = value < 0 || value > limit
	return
}

// Read implements Cell.
func (reg *Register) Read() (value uint16, err error) {
	return reg.value, nil
}

// Write implements Cell.
func (reg *Register) Write(value int) (carry bool, err error) {
	return reg.Set(value), nil
}

// Clear zeros the register.
func (reg *Register) Clear() {
	reg.value = 0
}

// Increment adds n, wrapping modulo 2^width.
func (reg *Register) Increment(n int) {
	reg.Set(int(reg.value) + n)
}

// Decrement subtracts n, wrapping modulo 2^width.
func (reg *Register) Decrement(n int) {
	reg.Set(int(reg.value) - n)
}

// Add adds the value of other, returning the carry out of the width.
func (reg *Register) Add(other Cell) (carry bool, err error) {
	value, err := other.Read()
	if err != nil {
		return
	}

	carry = reg.Set(int(reg.value) + int(value))
	return
}

// Subtract subtracts the value of other, returning the borrow out of the width.
func (reg *Register) Subtract(other Cell) (borrow bool, err error) {
	value, err := other.Read()
	if err != nil {
		return
	}

	borrow = reg.Set(int(reg.value) - int(value))
	return
}

// And performs a bitwise and with value.
func (reg *Register) And(value uint16) {
	reg.Set(int(reg.value & value))
}

// Or performs a bitwise or with value.
func (reg *Register) Or(value uint16) {
	reg.Set(int(reg.value | value))
}

// Xor performs a bitwise exclusive-or with value.
func (reg *Register) Xor(value uint16) {
	reg.Set(int(reg.value ^ value))
}

// Complement inverts every bit within the width.
func (reg *Register) Complement() {
	reg.Set(int(reg.value ^ reg.Max()))
}

// RotateLeft rotates the register left by n bits within its width.
func (reg *Register) RotateLeft(n uint) {
	n %= reg.width
	value := uint32(reg.value)
	reg.Set(int((value << n) | (value >> (reg.width - n))))
}

// RotateRight rotates the register right by n bits within its width.
func (reg *Register) RotateRight(n uint) {
	n %= reg.width
	value := uint32(reg.value)
	reg.Set(int((value >> n) | (value << (reg.width - n))))
}

// MostSignificantBits returns the top n bits of the register.
func (reg *Register) MostSignificantBits(n uint) uint16 {
	n = min(n, reg.width)
	return reg.value >> (reg.width - n)
}

// LeastSignificantBits returns the bottom n bits of the register.
func (reg *Register) LeastSignificantBits(n uint) uint16 {
	n = min(n, reg.width)
	return reg.value & maxOf(n)
}

// Bit returns bit i of the register.
func (reg *Register) Bit(i uint) bool {
	return (reg.value>>i)&1 != 0
}

// SetBit sets bit i of the register to x.
func (reg *Register) SetBit(i uint, x bool) {
	mask := uint16(1) << i
	if x {
		reg.Set(int(reg.value | mask))
	} else {
		reg.Set(int(reg.value &^ mask))
	}
}

// TransferTo copies the register's value into other, masked to other's width.
func (reg *Register) TransferTo(other Cell) (err error) {
	_, err = other.Write(int(reg.value))
	return
}

// TransferFrom copies other's value into the register, masked to its width.
func (reg *Register) TransferFrom(other Cell) (err error) {
	value, err := other.Read()
	if err != nil {
		return
	}

	reg.Set(int(value))
	return
}

// LoadFrom loads the register from memory at address.
func (reg *Register) LoadFrom(mem *memory.Memory, address int) (err error) {
	value, err := mem.Read(address)
	if err != nil {
		return
	}

	reg.Set(int(value))
	return
}

// StoreTo stores the register into memory at address.
func (reg *Register) StoreTo(mem *memory.Memory, address int) (err error) {
	return mem.Write(address, int(reg.value))
}

// String returns the register as NAME=hex.
func (reg *Register) String() string {
	return fmt.Sprintf("%v=%0*x", reg.name, (reg.width+3)/4, reg.value)
}
