package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	return
}

func runProgram(t *testing.T, prog *Program) (cpu *Cpu) {
	cpu = NewCpu(0x10000)

	start, data := prog.Image()
	assert.NoError(t, cpu.Load(data, int(start)))
	assert.NoError(t, cpu.Run())

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("65536", asm.Equate["MEMORY_SIZE"])
}

func TestAssembler_Basic(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"; add two numbers",
		"start:  MVI A, 5",
		"        mvi b,3    ; second",
		"        ADD B",
		"        HLT",
	)

	assert.Equal(4, len(prog.Opcodes))
	assert.Equal(Opcode{LineNo: 2, Address: 0, Words: []string{"MVI", "A", "5"}, Bytes: []byte{0x3e, 0x05}},
		prog.Opcodes[0])

	start, data := prog.Image()
	assert.Equal(uint16(0), start)
	assert.Equal([]byte{0x3e, 0x05, 0x06, 0x03, 0x80, 0x76}, data)

	cpu := runProgram(t, prog)
	assert.Equal(uint16(8), cpu.A.Value())
	assert.True(cpu.Halted)
}

func TestAssembler_Label(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"        LXI SP, 0x100",
		"        CALL sub",
		"        HLT",
		"sub:    MVI A, 'A'",
		"        RET",
		"        JMP done",
		"done:   .db \"Hi\", 0",
	)

	_, data := prog.Image()
	assert.Equal([]byte{
		0x31, 0x00, 0x01,
		0xcd, 0x07, 0x00,
		0x76,
		0x3e, 0x41,
		0xc9,
		0xc3, 0x0d, 0x00,
		0x48, 0x69, 0x00,
	}, data)

	assert.Equal([]Link{{Label: "sub", Offset: 1, Size: 2}}, prog.Opcodes[1].Links)

	cpu := runProgram(t, prog)
	assert.Equal(uint16('A'), cpu.A.Value())
	assert.Equal(uint16(7), cpu.PC.Value())
}

func TestAssembler_Numbers(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	table := [](struct {
		word  string
		value int
		ok    bool
	}){
		{"10", 10, true},
		{"0x1F", 31, true},
		{"1FH", 31, true},
		{"0FFh", 255, true},
		{"101B", 5, true},
		{"0b101", 5, true},
		{"017", 15, true},
		{"-1", -1, true},
		{"~0", -1, true},
		{"FFH", 0, false},
		{"xyz", 0, false},
		{"12Q", 0, false},
		{"", 0, false},
	}

	for _, entry := range table {
		value, err := asm.valueOf(entry.word)
		if entry.ok {
			assert.NoError(err, entry.word)
			assert.Equal(entry.value, value, entry.word)
		} else {
			assert.Error(err, entry.word)
		}
	}
}

func TestAssembler_Directives(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"        .org 0x100",
		"        .equ COUNT 3",
		"table:  .dw table, 0x1234",
		"        .db 1, 2, COUNT",
		"        .ds 2",
		"end:",
		"        .db $(end - table)",
	)

	start, data := prog.Image()
	assert.Equal(uint16(0x100), start)
	assert.Equal([]byte{0x00, 0x01, 0x34, 0x12, 0x01, 0x02, 0x03, 0x00, 0x00, 0x09}, data)
}

func TestAssembler_Characters(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		`MVI A, ' '`,
		`MVI B, ','`,
		`MVI C, ';'`,
		`MVI D, '\n'`,
		`.db "a;b", 'x' ; trailing`,
		`.db "say \"hi\""`,
	)

	_, data := prog.Image()
	expected := []byte{
		0x3e, ' ',
		0x06, ',',
		0x0e, ';',
		0x16, '\n',
		'a', ';', 'b', 'x',
	}
	expected = append(expected, []byte(`say "hi"`)...)
	assert.Equal(expected, data)
}

func TestAssembler_Expression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("PORT", "3")

	program := []string{
		".equ BASE 0x10",
		"MVI A, $(BASE * 2 + 1)",
		"OUT PORT",
		"MVI B, $(LINENO)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	_, data := prog.Image()
	assert.Equal([]byte{0x3e, 0x21, 0xd3, 0x03, 0x06, 0x04}, data)
}

func TestAssembler_Macro(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".macro LOADI reg, value",
		"        MVI reg, value",
		".endm",
		".macro DELAY n",
		"        MVI C, n",
		"@loop:  DCR C",
		"        JNZ @loop",
		".endm",
		"        LOADI A, 7",
		"        DELAY 2",
		"        DELAY 3",
		"        HLT",
	)

	_, data := prog.Image()
	assert.Equal([]byte{
		0x3e, 0x07,
		0x0e, 0x02, 0x0d, 0xc2, 0x04, 0x00,
		0x0e, 0x03, 0x0d, 0xc2, 0x0a, 0x00,
		0x76,
	}, data)

	cpu := runProgram(t, prog)
	assert.Equal(uint16(7), cpu.A.Value())
	assert.Equal(uint16(0), cpu.C.Value())
}

func TestAssembler_Mnemonics(t *testing.T) {
	assert := assert.New(t)

	for opcode, inst := range Instructions() {
		var expected []byte
		text := inst.String()
		switch inst.Size {
		case 1:
			expected = []byte{opcode}
		case 2:
			expected = []byte{opcode, 0x12}
			text = strings.Replace(text, IMMEDIATE, "0x12", 1)
		case 3:
			expected = []byte{opcode, 0x34, 0x12}
			text = strings.Replace(text, IMMEDIATE, "0x1234", 1)
		}

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(text))
		if !assert.NoError(err, text) {
			continue
		}

		_, data := prog.Image()
		assert.Equal(expected, data, text)

		// Disassembly reads back the same form.
		disasm, size := Disassemble(data)
		assert.Equal(inst.Size, size, text)
		assert.Equal(strings.ToUpper(text), strings.ToUpper(disasm), text)
	}
}

func TestAssembler_LabelMissing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("NOP\nJMP nowhere\n"))
	assert.True(errors.Is(err, ErrLabelMissing("nowhere")))

	var se *ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal(2, se.LineNo)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"A: NOP", 1, ErrLabelInvalid},
		{"1abc: NOP", 1, ErrLabelInvalid},
		{"MVI A, nothing", 1, ErrLabelMissing("nothing")},
		{"MVI A, 0x100", 1, ErrOpcodeRange},
		{"MVI A, -129", 1, ErrOpcodeRange},
		{"LXI H, 0x10000", 1, ErrOpcodeRange},
		{"MVI A", 1, ErrInstructionInvalid},
		{"MVI A, 1, 2", 1, ErrOpcodeExtraArgs},
		{"MOV A, 5", 1, ErrInstructionInvalid},
		{"NOP\nFOO\n", 2, ErrInstructionInvalid},
		{"RST 8", 1, ErrOpcodeRange},
		{"JMP $(True)", 1, ErrParseExpression("True")},
		{"JMP $(\"aaa\")", 1, ErrParseNumber("$(\"aaa\")")},
		{"JMP $(0x10000000000000000)", 1, ErrParseExpression("0x10000000000000000")},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ X 1\n.equ X 2\n", 2, ErrEquateDuplicate},
		{".org 0x10000", 1, ErrOpcodeRange},
		{".org", 1, ErrOpcodeValueMissing},
		{".bogus", 1, ErrDirectiveInvalid},
		{".db", 1, ErrOpcodeValueMissing},
		{".db \"abc", 1, ErrStringUnterminated},
		{".db 256", 1, ErrOpcodeRange},
		{".ds 0x10001", 1, ErrOpcodeRange},
		{".org 0xffff\nLXI H, 0\n", 2, nil},
		{".org 0x200\nhere: MVI A, here\n", 2, ErrOpcodeRange},
		{".macro X a\n.endm\nX\n", 3, ErrMacroSyntax},
		{".macro X\n.macro Y\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro X\n.endm\n.macro X\n.endm\n", 3, ErrMacroDuplicate},
		{".endm\n", 1, ErrMacroLonelyEndm},
		{".macro X\nNOP\n", 2, ErrMacroLonely},
		{".macro X\nBAD\n.endm\nNOP\nX\n", 5, ErrInstructionInvalid},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}

func TestAssembler_Verbose(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Verbose: true}
	prog, err := asm.Parse(strings.NewReader(fmt.Sprintf("MVI A, %d\nHLT\n", 3)))
	assert.NoError(err)
	assert.Equal(2, len(prog.Opcodes))
}
