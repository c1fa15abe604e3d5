package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Operand placeholder for immediate values in instruction operand forms.
const IMMEDIATE = "#"

// Register operand names, in the order of their 3-bit encoding.
var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// Register pair operand names, in the order of their 2-bit encoding.
var pairNames = [4]string{"B", "D", "H", "SP"}

// Condition code names, in the order of their 3-bit encoding.
var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// Register index of the M pseudo-register.
const REG_M = 6

// AluOp is an arithmetic or logic operation, by its 3-bit encoding.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_ADD = AluOp(0) // ADD
	ALU_ADC = AluOp(1) // ADC
	ALU_SUB = AluOp(2) // SUB
	ALU_SBB = AluOp(3) // SBB
	ALU_ANA = AluOp(4) // ANA
	ALU_XRA = AluOp(5) // XRA
	ALU_ORA = AluOp(6) // ORA
	ALU_CMP = AluOp(7) // CMP
)

// Immediate mnemonics of the ALU operations.
var aluImmNames = [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}

// Instruction is an entry of the opcode dispatch table.
type Instruction struct {
	Mnemonic string // Instruction mnemonic, ie "MVI".
	Operands string // Operand form, ie "A,#". Immediates are IMMEDIATE.
	Size     int    // Size in bytes, including the opcode.

	exec func(cpu *Cpu) error
}

// Valid returns true if the instruction has a handler.
func (inst *Instruction) Valid() bool {
	return inst.exec != nil
}

// String returns the instruction's operand form, ie "MVI A,#".
func (inst *Instruction) String() string {
	if len(inst.Operands) == 0 {
		return inst.Mnemonic
	}
	return inst.Mnemonic + " " + inst.Operands
}

// Format renders the instruction with its immediate operand, if any.
func (inst *Instruction) Format(immediate uint16) string {
	text := inst.String()
	switch inst.Size {
	case 2:
		text = strings.Replace(text, IMMEDIATE, fmt.Sprintf("0x%02x", immediate&0xff), 1)
	case 3:
		text = strings.Replace(text, IMMEDIATE, fmt.Sprintf("0x%04x", immediate), 1)
	}
	return text
}

// instructionTable is the process-wide opcode dispatch table.
// It is immutable after package initialisation.
var instructionTable = makeInstructionTable()

// mnemonicTable maps instruction operand forms to their opcodes.
var mnemonicTable = makeMnemonicTable()

// Lookup returns the instruction table entry for an opcode.
func Lookup(opcode byte) Instruction {
	return instructionTable[opcode]
}

// Instructions iterates over all valid instruction table entries.
func Instructions() iter.Seq2[byte, Instruction] {
	return func(yield func(opcode byte, inst Instruction) bool) {
		for n := range instructionTable {
			inst := instructionTable[n]
			if !inst.Valid() {
				continue
			}
			if !yield(byte(n), inst) {
				return
			}
		}
	}
}

// Disassemble renders the instruction at the start of code.
// The returned size is the number of bytes consumed; invalid or truncated
// instructions consume one byte.
func Disassemble(code []byte) (text string, size int) {
	if len(code) == 0 {
		return
	}

	inst := &instructionTable[code[0]]
	if !inst.Valid() || len(code) < inst.Size {
		return fmt.Sprintf(".db 0x%02x", code[0]), 1
	}

	var immediate uint16
	switch inst.Size {
	case 2:
		immediate = uint16(code[1])
	case 3:
		immediate = uint16(code[1]) | uint16(code[2])<<8
	}

	return inst.Format(immediate), inst.Size
}

func makeMnemonicTable() (table map[string]byte) {
	table = make(map[string]byte, 256)
	for opcode, inst := range Instructions() {
		table[inst.String()] = opcode
	}
	return
}

func makeInstructionTable() (table [256]Instruction) {
	set := func(opcode int, mnemonic string, operands string, size int, exec func(cpu *Cpu) error) {
		if table[opcode].Valid() {
			panic(fmt.Sprintf("opcode 0x%02x already defined as %v", opcode, table[opcode].String()))
		}
		table[opcode] = Instruction{
			Mnemonic: mnemonic,
			Operands: operands,
			Size:     size,
			exec:     exec,
		}
	}

	set(0x00, "NOP", "", 1, opNop)

	for rp := range 4 {
		base := rp << 4
		name := pairNames[rp]
		set(base|0x01, "LXI", name+","+IMMEDIATE, 3, opLxi(rp))
		set(base|0x03, "INX", name, 1, opInx(rp))
		set(base|0x09, "DAD", name, 1, opDad(rp))
		set(base|0x0b, "DCX", name, 1, opDcx(rp))
	}

	for rp := range 2 {
		base := rp << 4
		set(base|0x02, "STAX", pairNames[rp], 1, opStax(rp))
		set(base|0x0a, "LDAX", pairNames[rp], 1, opLdax(rp))
	}

	for r := range 8 {
		base := r << 3
		set(base|0x04, "INR", regNames[r], 1, opInr(r))
		set(base|0x05, "DCR", regNames[r], 1, opDcr(r))
		set(base|0x06, "MVI", regNames[r]+","+IMMEDIATE, 2, opMvi(r))
	}

	set(0x07, "RLC", "", 1, opRlc)
	set(0x0f, "RRC", "", 1, opRrc)
	set(0x17, "RAL", "", 1, opRal)
	set(0x1f, "RAR", "", 1, opRar)
	set(0x22, "SHLD", IMMEDIATE, 3, opShld)
	set(0x27, "DAA", "", 1, opDaa)
	set(0x2a, "LHLD", IMMEDIATE, 3, opLhld)
	set(0x2f, "CMA", "", 1, opCma)
	set(0x32, "STA", IMMEDIATE, 3, opSta)
	set(0x37, "STC", "", 1, opStc)
	set(0x3a, "LDA", IMMEDIATE, 3, opLda)
	set(0x3f, "CMC", "", 1, opCmc)

	for dst := range 8 {
		for src := range 8 {
			if dst == REG_M && src == REG_M {
				continue
			}
			set(0x40|dst<<3|src, "MOV", regNames[dst]+","+regNames[src], 1, opMov(dst, src))
		}
	}
	set(0x76, "HLT", "", 1, opHlt)

	for n := range 8 {
		op := AluOp(n)
		for src := range 8 {
			set(0x80|n<<3|src, op.String(), regNames[src], 1, opAlu(op, src))
		}
		set(0xc6|n<<3, aluImmNames[op], IMMEDIATE, 2, opAluImmediate(op))
	}

	for cc := range 8 {
		base := 0xc0 | cc<<3
		set(base|0x00, "R"+condNames[cc], "", 1, opRetCond(cc))
		set(base|0x02, "J"+condNames[cc], IMMEDIATE, 3, opJmpCond(cc))
		set(base|0x04, "C"+condNames[cc], IMMEDIATE, 3, opCallCond(cc))
		set(base|0x07, "RST", fmt.Sprint(cc), 1, opRst(cc))
	}

	for rp := range 4 {
		name := pairNames[rp]
		if rp == 3 {
			name = "PSW"
		}
		set(0xc1|rp<<4, "POP", name, 1, opPop(rp))
		set(0xc5|rp<<4, "PUSH", name, 1, opPush(rp))
	}

	set(0xc3, "JMP", IMMEDIATE, 3, opJmp)
	set(0xc9, "RET", "", 1, opRet)
	set(0xcd, "CALL", IMMEDIATE, 3, opCall)
	set(0xd3, "OUT", IMMEDIATE, 2, opOut)
	set(0xdb, "IN", IMMEDIATE, 2, opIn)
	set(0xe3, "XTHL", "", 1, opXthl)
	set(0xe9, "PCHL", "", 1, opPchl)
	set(0xeb, "XCHG", "", 1, opXchg)
	set(0xf3, "DI", "", 1, opDi)
	set(0xf9, "SPHL", "", 1, opSphl)
	set(0xfb, "EI", "", 1, opEi)

	return
}
