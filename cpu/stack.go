package cpu

import (
	"github.com/ezrec/sap3/memory"
	"github.com/ezrec/sap3/register"
)

// Stack is a descending 16-bit word stack in memory, addressed by SP.
// A push stores the high byte at SP-1 and the low byte at SP-2.
type Stack struct {
	SP     *register.Register
	Memory *memory.Memory
}

// Push a 16-bit value onto the stack.
func (st *Stack) Push(value uint16) (err error) {
	st.SP.Decrement(1)
	err = st.Memory.Write(int(st.SP.Value()), int(value>>8))
	if err != nil {
		return
	}

	st.SP.Decrement(1)
	err = st.Memory.Write(int(st.SP.Value()), int(value&0xff))
	return
}

// Pop a 16-bit value from the stack.
func (st *Stack) Pop() (value uint16, err error) {
	value, err = st.Peek()
	if err != nil {
		return
	}

	st.SP.Increment(2)
	return
}

// Peek returns the 16-bit value at the top of the stack.
func (st *Stack) Peek() (value uint16, err error) {
	sp := st.SP.Value()

	low, err := st.Memory.Read(int(sp))
	if err != nil {
		return
	}

	high, err := st.Memory.Read(int(uint16(sp + 1)))
	if err != nil {
		return
	}

	value = uint16(high)<<8 | uint16(low)
	return
}
