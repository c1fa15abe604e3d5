package cpu

import (
	"log"

	"github.com/ezrec/sap3/register"
)

// T-state costs.
const (
	TICKS_REG       = 4  // Register-only operations.
	TICKS_MEM       = 7  // Single memory or immediate byte operand.
	TICKS_MEM_RMW   = 10 // Read-modify-write of M, or MVI M.
	TICKS_PAIR      = 5  // INX, DCX, PCHL, SPHL.
	TICKS_DAD       = 10
	TICKS_LXI       = 10
	TICKS_JMP       = 10
	TICKS_JMP_SKIP  = 7
	TICKS_CALL      = 18
	TICKS_CALL_SKIP = 9
	TICKS_RET       = 10
	TICKS_RET_COND  = 11
	TICKS_RET_SKIP  = 5
	TICKS_DIRECT    = 13 // LDA, STA.
	TICKS_DIRECT16  = 16 // LHLD, SHLD.
	TICKS_PUSH      = 11
	TICKS_POP       = 10
	TICKS_RST       = 11
	TICKS_XTHL      = 18
	TICKS_IO        = 10
	TICKS_HLT       = 5
)

// condition evaluates a 3-bit condition code against the flags.
func (cpu *Cpu) condition(cc int) (ok bool) {
	switch cc >> 1 {
	case 0:
		ok = cpu.F.Zero()
	case 1:
		ok = cpu.F.Carry()
	case 2:
		ok = cpu.F.Parity()
	case 3:
		ok = cpu.F.Sign()
	}

	// Even codes are the negated forms.
	if cc&1 == 0 {
		ok = !ok
	}

	return
}

// reg returns the cell for a 3-bit register encoding.
func (cpu *Cpu) reg(r int) register.Cell {
	return cpu.regs[r]
}

// pair returns the 16-bit cell for a 2-bit register pair encoding.
func (cpu *Cpu) pair(rp int) wide {
	return cpu.pairs[rp]
}

func opNop(cpu *Cpu) (err error) {
	cpu.Ticks += TICKS_REG
	return
}

func opLxi(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		err = cpu.fetchAddress()
		if err != nil {
			return
		}
		cpu.pair(rp).Set(int(cpu.WZ.Value()))
		cpu.Ticks += TICKS_LXI
		return
	}
}

func opInx(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		cpu.pair(rp).Increment(1)
		cpu.Ticks += TICKS_PAIR
		return
	}
}

func opDcx(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		cpu.pair(rp).Decrement(1)
		cpu.Ticks += TICKS_PAIR
		return
	}
}

func opDad(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		sum := int(cpu.HL.Value()) + int(cpu.pair(rp).Value())
		carry := cpu.HL.Set(sum)
		cpu.F.Assign(register.FLAG_CARRY, carry)
		cpu.Ticks += TICKS_DAD
		return
	}
}

func opStax(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		err = cpu.A.StoreTo(cpu.Memory, int(cpu.pair(rp).Value()))
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_MEM
		return
	}
}

func opLdax(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		err = cpu.A.LoadFrom(cpu.Memory, int(cpu.pair(rp).Value()))
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_MEM
		return
	}
}

func opInr(r int) func(cpu *Cpu) error {
	ticks := TICKS_REG
	if r == REG_M {
		ticks = TICKS_MEM_RMW
	}
	return func(cpu *Cpu) (err error) {
		err = cpu.step(cpu.reg(r), 1)
		if err != nil {
			return
		}
		cpu.Ticks += ticks
		return
	}
}

func opDcr(r int) func(cpu *Cpu) error {
	ticks := TICKS_REG
	if r == REG_M {
		ticks = TICKS_MEM_RMW
	}
	return func(cpu *Cpu) (err error) {
		err = cpu.step(cpu.reg(r), -1)
		if err != nil {
			return
		}
		cpu.Ticks += ticks
		return
	}
}

func opMvi(r int) func(cpu *Cpu) error {
	ticks := TICKS_MEM
	if r == REG_M {
		ticks = TICKS_MEM_RMW
	}
	return func(cpu *Cpu) (err error) {
		err = cpu.fetchByte()
		if err != nil {
			return
		}
		err = cpu.Z.TransferTo(cpu.reg(r))
		if err != nil {
			return
		}
		cpu.Ticks += ticks
		return
	}
}

func opRlc(cpu *Cpu) (err error) {
	cpu.A.RotateLeft(1)
	cpu.F.Assign(register.FLAG_CARRY, cpu.A.Bit(0))
	cpu.Ticks += TICKS_REG
	return
}

func opRrc(cpu *Cpu) (err error) {
	cpu.A.RotateRight(1)
	cpu.F.Assign(register.FLAG_CARRY, cpu.A.Bit(7))
	cpu.Ticks += TICKS_REG
	return
}

func opRal(cpu *Cpu) (err error) {
	carry := cpu.A.Bit(7)
	cpu.A.RotateLeft(1)
	cpu.A.SetBit(0, cpu.F.Carry())
	cpu.F.Assign(register.FLAG_CARRY, carry)
	cpu.Ticks += TICKS_REG
	return
}

func opRar(cpu *Cpu) (err error) {
	carry := cpu.A.Bit(0)
	cpu.A.RotateRight(1)
	cpu.A.SetBit(7, cpu.F.Carry())
	cpu.F.Assign(register.FLAG_CARRY, carry)
	cpu.Ticks += TICKS_REG
	return
}

func opShld(cpu *Cpu) (err error) {
	err = cpu.fetchAddress()
	if err != nil {
		return
	}
	address := int(cpu.WZ.Value())
	err = cpu.L.StoreTo(cpu.Memory, address)
	if err != nil {
		return
	}
	err = cpu.H.StoreTo(cpu.Memory, int(uint16(address+1)))
	if err != nil {
		return
	}
	cpu.Ticks += TICKS_DIRECT16
	return
}

func opLhld(cpu *Cpu) (err error) {
	err = cpu.fetchAddress()
	if err != nil {
		return
	}
	address := int(cpu.WZ.Value())
	err = cpu.L.LoadFrom(cpu.Memory, address)
	if err != nil {
		return
	}
	err = cpu.H.LoadFrom(cpu.Memory, int(uint16(address+1)))
	if err != nil {
		return
	}
	cpu.Ticks += TICKS_DIRECT16
	return
}

func opDaa(cpu *Cpu) (err error) {
	cpu.decimalAdjust()
	cpu.Ticks += TICKS_REG
	return
}

func opCma(cpu *Cpu) (err error) {
	cpu.A.Complement()
	cpu.Ticks += TICKS_REG
	return
}

func opStc(cpu *Cpu) (err error) {
	cpu.F.Set(register.FLAG_CARRY)
	cpu.Ticks += TICKS_REG
	return
}

func opCmc(cpu *Cpu) (err error) {
	cpu.F.Toggle(register.FLAG_CARRY)
	cpu.Ticks += TICKS_REG
	return
}

func opSta(cpu *Cpu) (err error) {
	err = cpu.fetchAddress()
	if err != nil {
		return
	}
	err = cpu.A.StoreTo(cpu.Memory, int(cpu.WZ.Value()))
	if err != nil {
		return
	}
	cpu.Ticks += TICKS_DIRECT
	return
}

func opLda(cpu *Cpu) (err error) {
	err = cpu.fetchAddress()
	if err != nil {
		return
	}
	err = cpu.A.LoadFrom(cpu.Memory, int(cpu.WZ.Value()))
	if err != nil {
		return
	}
	cpu.Ticks += TICKS_DIRECT
	return
}

func opMov(dst, src int) func(cpu *Cpu) error {
	ticks := TICKS_REG
	if dst == REG_M || src == REG_M {
		ticks = TICKS_MEM
	}
	return func(cpu *Cpu) (err error) {
		value, err := cpu.reg(src).Read()
		if err != nil {
			return
		}
		_, err = cpu.reg(dst).Write(int(value))
		if err != nil {
			return
		}
		cpu.Ticks += ticks
		return
	}
}

func opHlt(cpu *Cpu) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: halted at 0x%04x", cpu.PC.Value()-1)
	}
	cpu.Halted = true
	cpu.Ticks += TICKS_HLT
	return
}

func opAlu(op AluOp, src int) func(cpu *Cpu) error {
	ticks := TICKS_REG
	if src == REG_M {
		ticks = TICKS_MEM
	}
	return func(cpu *Cpu) (err error) {
		err = cpu.alu(op, cpu.reg(src))
		if err != nil {
			return
		}
		cpu.Ticks += ticks
		return
	}
}

func opAluImmediate(op AluOp) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		err = cpu.fetchByte()
		if err != nil {
			return
		}
		err = cpu.alu(op, cpu.Z)
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_MEM
		return
	}
}

// jump transfers control to WZ.
func (cpu *Cpu) jump() {
	cpu.PC.Set(int(cpu.WZ.Value()))
}

// call pushes the return address and transfers control to WZ.
func (cpu *Cpu) call() (err error) {
	err = cpu.Stack.Push(cpu.PC.Value())
	if err != nil {
		return
	}
	cpu.jump()
	return
}

// ret pops the return address into WZ, then transfers control to it.
func (cpu *Cpu) ret() (err error) {
	address, err := cpu.Stack.Pop()
	if err != nil {
		return
	}
	cpu.WZ.Set(int(address))
	cpu.jump()
	return
}

func opJmp(cpu *Cpu) (err error) {
	err = cpu.fetchAddress()
	if err != nil {
		return
	}
	cpu.jump()
	cpu.Ticks += TICKS_JMP
	return
}

func opJmpCond(cc int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		err = cpu.fetchAddress()
		if err != nil {
			return
		}
		if !cpu.condition(cc) {
			cpu.Ticks += TICKS_JMP_SKIP
			return
		}
		cpu.jump()
		cpu.Ticks += TICKS_JMP
		return
	}
}

func opCall(cpu *Cpu) (err error) {
	err = cpu.fetchAddress()
	if err != nil {
		return
	}
	err = cpu.call()
	if err != nil {
		return
	}
	cpu.Ticks += TICKS_CALL
	return
}

func opCallCond(cc int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		err = cpu.fetchAddress()
		if err != nil {
			return
		}
		if !cpu.condition(cc) {
			cpu.Ticks += TICKS_CALL_SKIP
			return
		}
		err = cpu.call()
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_CALL
		return
	}
}

func opRet(cpu *Cpu) (err error) {
	err = cpu.ret()
	if err != nil {
		return
	}
	cpu.Ticks += TICKS_RET
	return
}

func opRetCond(cc int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		if !cpu.condition(cc) {
			cpu.Ticks += TICKS_RET_SKIP
			return
		}
		err = cpu.ret()
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_RET_COND
		return
	}
}

func opRst(n int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		cpu.WZ.Set(n << 3)
		err = cpu.call()
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_RST
		return
	}
}

// psw returns the processor status word, A in the high byte.
func (cpu *Cpu) psw() uint16 {
	return cpu.A.Value()<<8 | uint16(cpu.F.Value())
}

func opPush(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		var value uint16
		if rp == 3 {
			value = cpu.psw()
		} else {
			value = cpu.pair(rp).Value()
		}
		err = cpu.Stack.Push(value)
		if err != nil {
			return
		}
		cpu.Ticks += TICKS_PUSH
		return
	}
}

func opPop(rp int) func(cpu *Cpu) error {
	return func(cpu *Cpu) (err error) {
		value, err := cpu.Stack.Pop()
		if err != nil {
			return
		}
		if rp == 3 {
			cpu.A.Set(int(value >> 8))
			cpu.F.SetValue(byte(value))
		} else {
			cpu.pair(rp).Set(int(value))
		}
		cpu.Ticks += TICKS_POP
		return
	}
}

func opOut(cpu *Cpu) (err error) {
	err = cpu.fetchByte()
	if err != nil {
		return
	}
	index := byte(cpu.Z.Value())
	port, err := cpu.GetPort(index)
	if err != nil {
		return
	}
	cpu.OUT.TransferFrom(cpu.A)
	err = port.Out(byte(cpu.OUT.Value()))
	if err != nil {
		return
	}
	if cpu.Verbose {
		log.Printf("cpu: out %d <= 0x%02x", index, cpu.OUT.Value())
	}
	cpu.Ticks += TICKS_IO
	return
}

func opIn(cpu *Cpu) (err error) {
	err = cpu.fetchByte()
	if err != nil {
		return
	}
	index := byte(cpu.Z.Value())
	port, err := cpu.GetPort(index)
	if err != nil {
		return
	}
	value, err := port.In()
	if err != nil {
		return
	}
	cpu.IN.Set(int(value))
	cpu.A.TransferFrom(cpu.IN)
	if cpu.Verbose {
		log.Printf("cpu: in %d => 0x%02x", index, value)
	}
	cpu.Ticks += TICKS_IO
	return
}

func opXthl(cpu *Cpu) (err error) {
	top, err := cpu.Stack.Peek()
	if err != nil {
		return
	}
	sp := int(cpu.SP.Value())
	err = cpu.L.StoreTo(cpu.Memory, sp)
	if err != nil {
		return
	}
	err = cpu.H.StoreTo(cpu.Memory, int(uint16(sp+1)))
	if err != nil {
		return
	}
	cpu.HL.Set(int(top))
	cpu.Ticks += TICKS_XTHL
	return
}

func opPchl(cpu *Cpu) (err error) {
	cpu.PC.Set(int(cpu.HL.Value()))
	cpu.Ticks += TICKS_PAIR
	return
}

func opSphl(cpu *Cpu) (err error) {
	cpu.SP.Set(int(cpu.HL.Value()))
	cpu.Ticks += TICKS_PAIR
	return
}

func opXchg(cpu *Cpu) (err error) {
	de := cpu.DE.Value()
	cpu.DE.Set(int(cpu.HL.Value()))
	cpu.HL.Set(int(de))
	cpu.Ticks += TICKS_REG
	return
}

func opDi(cpu *Cpu) (err error) {
	cpu.InterruptEnable = false
	cpu.Ticks += TICKS_REG
	return
}

func opEi(cpu *Cpu) (err error) {
	cpu.InterruptEnable = true
	cpu.Ticks += TICKS_REG
	return
}
