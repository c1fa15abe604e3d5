package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/sap3/io"
	"github.com/ezrec/sap3/memory"
	"github.com/ezrec/sap3/register"
)

// Port is an I/O port device.
type Port io.Port

// wide is a 16-bit register or register pair.
type wide interface {
	register.Cell
	Value() uint16
	Set(value int) (carry bool)
	Increment(n int)
	Decrement(n int)
}

// Cpu is the simulation context for the SAP-3 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // Memory array.
	Stack  Stack          // Stack view of memory at SP.

	A *register.Register // Accumulator.
	B *register.Register
	C *register.Register
	D *register.Register
	E *register.Register
	H *register.Register
	L *register.Register

	BC *register.Pair
	DE *register.Pair
	HL *register.Pair

	W  *register.Register // Internal operand register, high byte.
	Z  *register.Register // Internal operand register, low byte.
	WZ *register.Pair

	TMP *register.Register // ALU scratch for compares.
	IR  *register.Register // Instruction register.
	IN  *register.Register // Input port latch.
	OUT *register.Register // Output port latch.

	M  *register.Indirect // Memory at HL.
	F  *register.Flags    // Condition flags.
	PC *register.Register // Program counter.
	SP *register.Register // Stack pointer.

	Halted          bool // Set by HLT, cleared by Reset.
	InterruptEnable bool // Set by EI, cleared by DI. No interrupts are delivered.

	Ticks int // T-states executed since Reset.

	regs  [8]register.Cell // Registers by 3-bit operand encoding.
	pairs [4]wide          // Register pairs by 2-bit operand encoding.
	port  [256]Port        // I/O ports.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(size int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory.New(size),

		A: register.New("A", 8),
		B: register.New("B", 8),
		C: register.New("C", 8),
		D: register.New("D", 8),
		E: register.New("E", 8),
		H: register.New("H", 8),
		L: register.New("L", 8),

		W: register.New("W", 8),
		Z: register.New("Z", 8),

		TMP: register.New("TMP", 8),
		IR:  register.New("IR", 8),
		IN:  register.New("IN", 8),
		OUT: register.New("OUT", 8),

		F:  &register.Flags{},
		PC: register.New("PC", 16),
		SP: register.New("SP", 16),
	}

	cpu.BC = register.NewPair("BC", cpu.B, cpu.C)
	cpu.DE = register.NewPair("DE", cpu.D, cpu.E)
	cpu.HL = register.NewPair("HL", cpu.H, cpu.L)
	cpu.WZ = register.NewPair("WZ", cpu.W, cpu.Z)
	cpu.M = register.NewIndirect("M", cpu.Memory, cpu.HL)

	cpu.Stack = Stack{SP: cpu.SP, Memory: cpu.Memory}

	cpu.regs = [8]register.Cell{cpu.B, cpu.C, cpu.D, cpu.E, cpu.H, cpu.L, cpu.M, cpu.A}
	cpu.pairs = [4]wide{cpu.BC, cpu.DE, cpu.HL, cpu.SP}

	return
}

// Reset the CPU state.
// - Clears all registers and flags.
// - Clears the halt state and interrupt enable latch.
// - Zeros the T-state counter.
// Memory and port bindings are left as is.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	for _, reg := range []*register.Register{
		cpu.A, cpu.B, cpu.C, cpu.D, cpu.E, cpu.H, cpu.L,
		cpu.W, cpu.Z, cpu.TMP, cpu.IR, cpu.IN, cpu.OUT,
		cpu.PC, cpu.SP,
	} {
		reg.Clear()
	}
	cpu.F.ClearAll()

	cpu.Halted = false
	cpu.InterruptEnable = false
	cpu.Ticks = 0
}

// Load copies a program image into memory at start.
func (cpu *Cpu) Load(program []byte, start int) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: load %d bytes at 0x%04x", len(program), start)
	}

	return cpu.Memory.Load(program, start)
}

// Peek reads memory, bypassing the instruction pipeline.
func (cpu *Cpu) Peek(address int) byte {
	return cpu.Memory.Peek(address)
}

// Poke writes memory, bypassing the instruction pipeline.
func (cpu *Cpu) Poke(address int, value byte) {
	cpu.Memory.Poke(address, value)
}

// SetPort binds a port number to a device. A nil device unbinds the port.
func (cpu *Cpu) SetPort(index byte, port Port) {
	cpu.port[index] = port
}

// GetPort gets the device bound to a port number.
func (cpu *Cpu) GetPort(index byte) (port Port, err error) {
	port = cpu.port[index]
	if port == nil {
		err = ErrPort{Port: index}
	}
	return
}

// Run executes instructions until the CPU halts or faults.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		_, err = cpu.Step()
		if err != nil {
			return
		}
	}

	return
}

// Step performs one fetch/decode/execute cycle, and reports whether the
// CPU is halted. Stepping a halted CPU does nothing.
//
// A fault leaves any side effects of the partially executed instruction
// in place; Reset is required before resuming.
func (cpu *Cpu) Step() (halted bool, err error) {
	if cpu.Halted {
		return true, nil
	}

	address := cpu.PC.Value()
	if int(address) >= cpu.Memory.Size() {
		err = ErrProgramCounter{Address: address}
		return
	}

	// Fetch
	err = cpu.IR.LoadFrom(cpu.Memory, int(address))
	if err != nil {
		return
	}
	cpu.PC.Increment(1)

	// Decode
	opcode := byte(cpu.IR.Value())
	inst := &instructionTable[opcode]
	if !inst.Valid() {
		err = ErrOpcode{Address: address, Opcode: opcode}
		return
	}

	if cpu.Verbose {
		text, _ := cpu.Disassemble(address)
		log.Printf("cpu: %04x: %v", address, text)
	}

	// Execute
	err = inst.exec(cpu)
	if err != nil {
		return
	}

	halted = cpu.Halted
	return
}

// Disassemble renders the instruction in memory at address.
func (cpu *Cpu) Disassemble(address uint16) (text string, size int) {
	var code [3]byte
	for n := range code {
		code[n] = cpu.Memory.Peek(int(address + uint16(n)))
	}

	return Disassemble(code[:])
}

// fetchByte fetches the next instruction byte into Z.
func (cpu *Cpu) fetchByte() (err error) {
	err = cpu.Z.LoadFrom(cpu.Memory, int(cpu.PC.Value()))
	if err != nil {
		return
	}
	cpu.PC.Increment(1)
	return
}

// fetchAddress fetches the next two instruction bytes, low byte first,
// into WZ.
func (cpu *Cpu) fetchAddress() (err error) {
	err = cpu.fetchByte()
	if err != nil {
		return
	}
	low := cpu.Z.Value()

	err = cpu.fetchByte()
	if err != nil {
		return
	}
	cpu.W.Set(int(cpu.Z.Value()))
	cpu.Z.Set(int(low))
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp", "a", "f", "bc", "de", "hl", "m", "ir", "state", "ticks",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			inst, _ := cpu.Disassemble(cpu.PC.Value())
			strval = fmt.Sprintf("%04x  %v", cpu.PC.Value(), inst)
		case "sp":
			top, err := cpu.Stack.Peek()
			if err != nil {
				strval = fmt.Sprintf("%04x  [----]", cpu.SP.Value())
			} else {
				strval = fmt.Sprintf("%04x  [%04x]", cpu.SP.Value(), top)
			}
		case "a":
			strval = fmt.Sprintf("%02x    %08b", cpu.A.Value(), cpu.A.Value())
		case "f":
			strval = fmt.Sprintf("%02x    %v", cpu.F.Value(), cpu.F.String())
		case "bc":
			strval = fmt.Sprintf("%04x", cpu.BC.Value())
		case "de":
			strval = fmt.Sprintf("%04x", cpu.DE.Value())
		case "hl":
			strval = fmt.Sprintf("%04x", cpu.HL.Value())
		case "m":
			value, err := cpu.M.Read()
			if err != nil {
				strval = "--"
			} else {
				strval = fmt.Sprintf("%02x", value)
			}
		case "ir":
			strval = fmt.Sprintf("%02x", cpu.IR.Value())
		case "state":
			strval = "running"
			if cpu.Halted {
				strval = "halted"
			}
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}
