package register

import (
	"fmt"
)

// Pair is a double-width register composed of an upper and a lower
// register. It has no storage of its own.
type Pair struct {
	name  string
	Upper *Register
	Lower *Register
}

var _ Cell = (*Pair)(nil)

// NewPair creates a register pair view over upper and lower.
func NewPair(name string, upper, lower *Register) (pair *Pair) {
	pair = &Pair{
		name:  name,
		Upper: upper,
		Lower: lower,
	}

	return
}

// Name returns the diagnostic name of the pair.
func (pair *Pair) Name() string {
	return pair.name
}

// Width returns the combined width of both halves.
func (pair *Pair) Width() uint {
	return pair.Upper.Width() + pair.Lower.Width()
}

// Max returns the largest value the pair can hold.
func (pair *Pair) Max() uint16 {
	return maxOf(pair.Width())
}

// Value composes the pair's value from its halves.
func (pair *Pair) Value() uint16 {
	return (pair.Upper.Value() << pair.Lower.Width()) | pair.Lower.Value()
}

// Set decomposes value into both halves.
// Returns true if value was outside of [0, Max()].
func (pair *Pair) Set(value int) (carry bool) {
	limit := int(pair.Max())
	carry = value < 0 || value > limit
	value &= limit
	pair.Lower.Set(value & int(pair.Lower.Max()))
	pair.Upper.Set(value >> pair.Lower.Width())
	return
}

// Read implements Cell.
func (pair *Pair) Read() (value uint16, err error) {
	return pair.Value(), nil
}

// Write implements Cell.
func (pair *Pair) Write(value int) (carry bool, err error) {
	return pair.Set(value), nil
}

// Clear zeros both halves.
func (pair *Pair) Clear() {
	pair.Upper.Clear()
	pair.Lower.Clear()
}

// Increment adds n, wrapping modulo 2^width.
func (pair *Pair) Increment(n int) {
	pair.Set(int(pair.Value()) + n)
}

// Decrement subtracts n, wrapping modulo 2^width.
func (pair *Pair) Decrement(n int) {
	pair.Set(int(pair.Value()) - n)
}

// String returns the pair as NAME=hex.
func (pair *Pair) String() string {
	return fmt.Sprintf("%v=%0*x", pair.name, (pair.Width()+3)/4, pair.Value())
}
