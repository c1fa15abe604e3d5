package register

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sap3/memory"
)

func TestIndirect(t *testing.T) {
	assert := assert.New(t)

	mem := memory.New(memory.SIZE)
	h := New("H", 8)
	l := New("L", 8)
	hl := NewPair("HL", h, l)
	m := NewIndirect("M", mem, hl)

	assert.Equal("M", m.Name())
	assert.Equal(uint(8), m.Width())

	hl.Set(0x2000)
	carry, err := m.Write(0x5a)
	assert.NoError(err)
	assert.False(carry)
	assert.Equal(byte(0x5a), mem.Peek(0x2000))

	// Only the addressed cell changes.
	assert.Equal(byte(0), mem.Peek(0x1fff))
	assert.Equal(byte(0), mem.Peek(0x2001))
	assert.Equal(uint16(0x2000), hl.Value())

	// Direct writes are visible through the pseudo-register.
	mem.Poke(0x2000, 0x77)
	value, err := m.Read()
	assert.NoError(err)
	assert.Equal(uint16(0x77), value)

	// Moving the pointer moves the view.
	hl.Set(0x2001)
	value, err = m.Read()
	assert.NoError(err)
	assert.Equal(uint16(0), value)

	carry, err = m.Write(0x1ff)
	assert.NoError(err)
	assert.True(carry)
	assert.Equal(byte(0xff), mem.Peek(0x2001))
}

func TestIndirect_Bounds(t *testing.T) {
	assert := assert.New(t)

	mem := memory.New(0x100)
	ptr := New("PTR", 16)
	m := NewIndirect("M", mem, ptr)

	ptr.Set(0x100)
	_, err := m.Read()
	assert.ErrorIs(err, memory.ErrAddress{})

	_, err = m.Write(1)
	assert.ErrorIs(err, memory.ErrAddress{})

	// Registers can transfer through the pseudo-register.
	ptr.Set(0x10)
	a := New("A", 8)
	a.Set(0x33)
	assert.NoError(a.TransferTo(m))
	assert.Equal(byte(0x33), mem.Peek(0x10))
}
