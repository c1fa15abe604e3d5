package register

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sap3/memory"
)

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	reg := New("A", 8)
	assert.Equal("A", reg.Name())
	assert.Equal(uint(8), reg.Width())
	assert.Equal(uint16(0xff), reg.Max())
	assert.Equal(uint16(0), reg.Value())

	assert.Panics(func() { New("X", 0) })
	assert.Panics(func() { New("X", 17) })
}

func TestRegister_Set(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		width    uint
		value    int
		expected uint16
		carry    bool
	}){
		{"in range", 8, 0x12, 0x12, false},
		{"max", 8, 0xff, 0xff, false},
		{"overflow", 8, 0x100, 0x00, true},
		{"overflow masked", 8, 0x1ab, 0xab, true},
		{"underflow", 8, -1, 0xff, true},
		{"nibble", 4, 0x1f, 0xf, true},
		{"word", 16, 0xffff, 0xffff, false},
		{"word overflow", 16, 0x10001, 0x0001, true},
	}

	for _, entry := range table {
		reg := New("R", entry.width)
		carry := reg.Set(entry.value)
		assert.Equal(entry.expected, reg.Value(), entry.name)
		assert.Equal(entry.carry, carry, entry.name)
		assert.LessOrEqual(reg.Value(), reg.Max(), entry.name)
	}
}

func TestRegister_Masking(t *testing.T) {
	assert := assert.New(t)

	for _, width := range []uint{4, 8, 16} {
		reg := New("R", width)
		other := New("O", 16)
		other.Set(0xfedc)
		ops := []func(){
			func() { reg.Increment(1) },
			func() { reg.Decrement(3) },
			func() { reg.Add(other) },
			func() { reg.Subtract(other) },
			func() { reg.Or(0xffff) },
			func() { reg.Xor(0x1234) },
			func() { reg.And(0xff0f) },
			func() { reg.Complement() },
			func() { reg.RotateLeft(3) },
			func() { reg.RotateRight(5) },
			func() { reg.SetBit(width-1, true) },
			func() { reg.TransferFrom(other) },
		}
		for n, op := range ops {
			op()
			assert.LessOrEqual(reg.Value(), reg.Max(), "width %v op %v", width, n)
		}
	}
}

func TestRegister_IncrementDecrement(t *testing.T) {
	assert := assert.New(t)

	reg := New("R", 8)
	reg.Set(0xff)
	reg.Increment(1)
	assert.Equal(uint16(0), reg.Value())

	reg.Decrement(1)
	assert.Equal(uint16(0xff), reg.Value())

	reg.Increment(0x102)
	assert.Equal(uint16(0x01), reg.Value())

	pc := New("PC", 16)
	pc.Set(0xfffe)
	pc.Increment(2)
	assert.Equal(uint16(0), pc.Value())
}

func TestRegister_AddSubtract(t *testing.T) {
	assert := assert.New(t)

	a := New("A", 8)
	b := New("B", 8)

	a.Set(0x05)
	b.Set(0x03)
	carry, err := a.Add(b)
	assert.NoError(err)
	assert.False(carry)
	assert.Equal(uint16(0x08), a.Value())

	a.Set(0xf0)
	b.Set(0x20)
	carry, err = a.Add(b)
	assert.NoError(err)
	assert.True(carry)
	assert.Equal(uint16(0x10), a.Value())

	a.Set(0x10)
	b.Set(0x20)
	borrow, err := a.Subtract(b)
	assert.NoError(err)
	assert.True(borrow)
	assert.Equal(uint16(0xf0), a.Value())

	a.Set(0x20)
	borrow, err = a.Subtract(b)
	assert.NoError(err)
	assert.False(borrow)
	assert.Equal(uint16(0x00), a.Value())
}

func TestRegister_Logic(t *testing.T) {
	assert := assert.New(t)

	reg := New("A", 8)

	reg.Set(0b1100_1010)
	reg.And(0b1010_1010)
	assert.Equal(uint16(0b1000_1010), reg.Value())

	reg.Or(0b0000_0101)
	assert.Equal(uint16(0b1000_1111), reg.Value())

	reg.Xor(0b1111_0000)
	assert.Equal(uint16(0b0111_1111), reg.Value())

	reg.Complement()
	assert.Equal(uint16(0b1000_0000), reg.Value())

	nib := New("N", 4)
	nib.Set(0b0101)
	nib.Complement()
	assert.Equal(uint16(0b1010), nib.Value())
}

func TestRegister_Rotate(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		width    uint
		value    int
		left     bool
		n        uint
		expected uint16
	}){
		{"rol 1", 8, 0b1000_0001, true, 1, 0b0000_0011},
		{"ror 1", 8, 0b1000_0001, false, 1, 0b1100_0000},
		{"rol 4", 8, 0x12, true, 4, 0x21},
		{"ror 8", 8, 0x12, false, 8, 0x12},
		{"rol 0", 8, 0x12, true, 0, 0x12},
		{"rol 9", 8, 0x81, true, 9, 0x03},
		{"rol word", 16, 0x8001, true, 1, 0x0003},
		{"ror nibble", 4, 0b0001, false, 1, 0b1000},
	}

	for _, entry := range table {
		reg := New("R", entry.width)
		reg.Set(entry.value)
		if entry.left {
			reg.RotateLeft(entry.n)
		} else {
			reg.RotateRight(entry.n)
		}
		assert.Equal(entry.expected, reg.Value(), entry.name)
	}
}

func TestRegister_Bits(t *testing.T) {
	assert := assert.New(t)

	ir := New("IR", 8)
	ir.Set(0xa5)

	assert.Equal(uint16(0xa), ir.MostSignificantBits(4))
	assert.Equal(uint16(0x5), ir.LeastSignificantBits(4))
	assert.Equal(uint16(1), ir.MostSignificantBits(1))
	assert.Equal(uint16(1), ir.LeastSignificantBits(1))
	assert.Equal(uint16(0xa5), ir.MostSignificantBits(12))

	assert.True(ir.Bit(0))
	assert.False(ir.Bit(1))

	ir.SetBit(1, true)
	assert.Equal(uint16(0xa7), ir.Value())
	ir.SetBit(7, false)
	assert.Equal(uint16(0x27), ir.Value())
}

func TestRegister_Transfer(t *testing.T) {
	assert := assert.New(t)

	wide := New("PC", 16)
	narrow := New("A", 8)

	wide.Set(0x1234)
	assert.NoError(wide.TransferTo(narrow))
	assert.Equal(uint16(0x34), narrow.Value())

	narrow.Set(0xff)
	assert.NoError(wide.TransferFrom(narrow))
	assert.Equal(uint16(0xff), wide.Value())
}

func TestRegister_Memory(t *testing.T) {
	assert := assert.New(t)

	mem := memory.New(16)
	reg := New("A", 8)

	reg.Set(0x42)
	assert.NoError(reg.StoreTo(mem, 3))
	assert.Equal(byte(0x42), mem.Peek(3))

	reg.Clear()
	assert.Equal(uint16(0), reg.Value())
	assert.NoError(reg.LoadFrom(mem, 3))
	assert.Equal(uint16(0x42), reg.Value())

	assert.ErrorIs(reg.LoadFrom(mem, 16), memory.ErrAddress{})
	assert.ErrorIs(reg.StoreTo(mem, 16), memory.ErrAddress{})
	assert.Equal(uint16(0x42), reg.Value())
}

func TestRegister_String(t *testing.T) {
	assert := assert.New(t)

	reg := New("SP", 16)
	reg.Set(0xbeef)
	assert.Equal("SP=beef", reg.String())

	reg = New("A", 8)
	reg.Set(0x0a)
	assert.Equal("A=0a", reg.String())
}
