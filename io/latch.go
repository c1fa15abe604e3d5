package io

// Latch is a byte register port, such as a bank of switches or LEDs.
// In returns the last value set or written by Out.
type Latch struct {
	Value   byte // Current latched value.
	Initial byte // Value restored on Rewind.
}

var _ Port = (*Latch)(nil)

// Rewind restores the initial value.
func (latch *Latch) Rewind() {
	latch.Value = latch.Initial
}

// In returns the latched value.
func (latch *Latch) In() (value byte, err error) {
	return latch.Value, nil
}

// Out latches value.
func (latch *Latch) Out(value byte) (err error) {
	latch.Value = value
	return
}
