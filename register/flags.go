package register

import (
	"strings"
)

// Flag is the bit position of a condition flag in the flags register.
type Flag uint

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_CARRY     = Flag(0) // carry
	FLAG_PARITY    = Flag(2) // parity
	FLAG_AUX_CARRY = Flag(4) // aux
	FLAG_ZERO      = Flag(6) // zero
	FLAG_SIGN      = Flag(7) // sign
)

// flagOrder lists the defined flags, most significant first.
var flagOrder = []Flag{FLAG_SIGN, FLAG_ZERO, FLAG_AUX_CARRY, FLAG_PARITY, FLAG_CARRY}

// FLAG_MASK covers every defined flag bit.
const FLAG_MASK = byte(1<<FLAG_CARRY | 1<<FLAG_PARITY | 1<<FLAG_AUX_CARRY | 1<<FLAG_ZERO | 1<<FLAG_SIGN)

// ParseFlag returns the flag with the given name.
func ParseFlag(name string) (flag Flag, ok bool) {
	name = strings.ToLower(name)
	for _, known := range flagOrder {
		if known.String() == name {
			return known, true
		}
	}

	return
}

// Flags is the condition flags register.
// Bit positions without a defined flag always read as zero.
type Flags struct {
	value byte
}

var _ Cell = (*Flags)(nil)

// Name returns the diagnostic name of the flags register.
func (fl *Flags) Name() string {
	return "F"
}

// Width is always 8.
func (fl *Flags) Width() uint {
	return 8
}

// Value packs all flags into a byte.
func (fl *Flags) Value() byte {
	return fl.value
}

// SetValue unpacks all flags from a byte.
func (fl *Flags) SetValue(value byte) {
	fl.value = value & FLAG_MASK
}

// Read implements Cell.
func (fl *Flags) Read() (value uint16, err error) {
	return uint16(fl.value), nil
}

// Write implements Cell.
func (fl *Flags) Write(value int) (carry bool, err error) {
	fl.SetValue(byte(value))
	carry = value < 0 || value > 0xff
	return
}

// Get returns the state of a flag.
func (fl *Flags) Get(flag Flag) bool {
	return fl.value&(1<<flag) != 0
}

// Set sets a flag.
func (fl *Flags) Set(flag Flag) {
	fl.value |= (1 << flag) & FLAG_MASK
}

// Clear clears a flag.
func (fl *Flags) Clear(flag Flag) {
	fl.value &^= 1 << flag
}

// Toggle inverts a flag.
func (fl *Flags) Toggle(flag Flag) {
	fl.value ^= (1 << flag) & FLAG_MASK
}

// Assign sets or clears a flag.
func (fl *Flags) Assign(flag Flag, state bool) {
	if state {
		fl.Set(flag)
	} else {
		fl.Clear(flag)
	}
}

// ClearAll clears every flag.
func (fl *Flags) ClearAll() {
	fl.value = 0
}

func (fl *Flags) Carry() bool    { return fl.Get(FLAG_CARRY) }
func (fl *Flags) Parity() bool   { return fl.Get(FLAG_PARITY) }
func (fl *Flags) AuxCarry() bool { return fl.Get(FLAG_AUX_CARRY) }
func (fl *Flags) Zero() bool     { return fl.Get(FLAG_ZERO) }
func (fl *Flags) Sign() bool     { return fl.Get(FLAG_SIGN) }

// String lists the set flags by their upper-case initial, or '-' if clear.
func (fl *Flags) String() string {
	var sb strings.Builder
	for _, flag := range flagOrder {
		if fl.Get(flag) {
			sb.WriteString(strings.ToUpper(flag.String()[:1]))
		} else {
			sb.WriteByte('-')
		}
	}

	return sb.String()
}
