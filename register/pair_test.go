package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPair(t *testing.T) {
	assert := assert.New(t)

	h := New("H", 8)
	l := New("L", 8)
	hl := NewPair("HL", h, l)

	assert.Equal("HL", hl.Name())
	assert.Equal(uint(16), hl.Width())
	assert.Equal(uint16(0xffff), hl.Max())

	hl.Set(0x1234)
	assert.Equal(uint16(0x12), h.Value())
	assert.Equal(uint16(0x34), l.Value())

	// Shared mutation in both directions.
	h.Set(0xab)
	assert.Equal(uint16(0xab34), hl.Value())
	l.Set(0xcd)
	assert.Equal(uint16(0xabcd), hl.Value())

	assert.Equal("HL=abcd", hl.String())

	hl.Clear()
	assert.Equal(uint16(0), h.Value())
	assert.Equal(uint16(0), l.Value())
}

func TestPair_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	b := New("B", 8)
	c := New("C", 8)
	bc := NewPair("BC", b, c)

	for v := 0; v <= 0xffff; v++ {
		carry := bc.Set(v)
		if carry || bc.Value() != uint16(v) || b.Value() != uint16(v>>8) || c.Value() != uint16(v&0xff) {
			assert.Failf("round trip", "value 0x%04x", v)
			return
		}
	}
}

func TestPair_Wrap(t *testing.T) {
	assert := assert.New(t)

	d := New("D", 8)
	e := New("E", 8)
	de := NewPair("DE", d, e)

	de.Set(0x00ff)
	de.Increment(1)
	assert.Equal(uint16(0x0100), de.Value())

	de.Set(0xffff)
	de.Increment(1)
	assert.Equal(uint16(0x0000), de.Value())

	de.Decrement(1)
	assert.Equal(uint16(0xffff), de.Value())

	carry, err := de.Write(0x12345)
	assert.NoError(err)
	assert.True(carry)
	assert.Equal(uint16(0x2345), de.Value())

	value, err := de.Read()
	assert.NoError(err)
	assert.Equal(uint16(0x2345), value)
}
