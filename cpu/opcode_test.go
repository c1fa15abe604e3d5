package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructionTable(t *testing.T) {
	assert := assert.New(t)

	invalid := map[byte]bool{
		0x08: true, 0x10: true, 0x18: true, 0x20: true,
		0x28: true, 0x30: true, 0x38: true, 0xcb: true,
		0xd9: true, 0xdd: true, 0xed: true, 0xfd: true,
	}

	count := 0
	for opcode, inst := range Instructions() {
		count++
		assert.False(invalid[opcode], "0x%02x", opcode)
		assert.Contains([]int{1, 2, 3}, inst.Size, "0x%02x", opcode)
		assert.Equal(opcode, mnemonicTable[inst.String()], inst.String())
	}
	assert.Equal(256-len(invalid), count)

	for opcode := range invalid {
		inst := Lookup(opcode)
		assert.False(inst.Valid(), "0x%02x", opcode)
	}
}

func TestInstructionTable_Entries(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		opcode byte
		text   string
		size   int
	}){
		{0x00, "NOP", 1},
		{0x01, "LXI B,#", 3},
		{0x1b, "DCX D", 1},
		{0x1c, "INR E", 1},
		{0x31, "LXI SP,#", 3},
		{0x36, "MVI M,#", 2},
		{0x3e, "MVI A,#", 2},
		{0x76, "HLT", 1},
		{0x77, "MOV M,A", 1},
		{0x7e, "MOV A,M", 1},
		{0x80, "ADD B", 1},
		{0xbe, "CMP M", 1},
		{0xc2, "JNZ #", 3},
		{0xc6, "ADI #", 2},
		{0xc7, "RST 0", 1},
		{0xcd, "CALL #", 3},
		{0xd3, "OUT #", 2},
		{0xdb, "IN #", 2},
		{0xf1, "POP PSW", 1},
		{0xf5, "PUSH PSW", 1},
		{0xfe, "CPI #", 2},
		{0xff, "RST 7", 1},
	}

	for _, entry := range table {
		inst := Lookup(entry.opcode)
		assert.True(inst.Valid(), entry.text)
		assert.Equal(entry.text, inst.String())
		assert.Equal(entry.size, inst.Size, entry.text)
	}
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code []byte
		text string
		size int
	}){
		{nil, "", 0},
		{[]byte{0x3e, 0x05}, "MVI A,0x05", 2},
		{[]byte{0xc3, 0x34, 0x12}, "JMP 0x1234", 3},
		{[]byte{0x21, 0x00, 0x80, 0xff}, "LXI H,0x8000", 3},
		{[]byte{0x08}, ".db 0x08", 1},
		{[]byte{0xc3, 0x34}, ".db 0xc3", 1},
		{[]byte{0xc7}, "RST 0", 1},
		{[]byte{0xf5}, "PUSH PSW", 1},
		{[]byte{0x76, 0x00}, "HLT", 1},
	}

	for _, entry := range table {
		text, size := Disassemble(entry.code)
		assert.Equal(entry.text, text)
		assert.Equal(entry.size, size, entry.text)
	}
}

func TestAluOp(t *testing.T) {
	assert := assert.New(t)

	names := []string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for n, name := range names {
		op := AluOp(n)
		assert.Equal(name, op.String())

		// Register forms take the operation's name.
		inst := Lookup(byte(0x80 | n<<3))
		assert.Equal(name, inst.Mnemonic)
	}

	assert.Equal("AluOp(8)", AluOp(8).String())
}
