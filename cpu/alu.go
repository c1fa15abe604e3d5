package cpu

import (
	"math/bits"

	"github.com/ezrec/sap3/register"
)

// parity returns true if the low byte of value has an even number of set bits.
func parity(value uint16) bool {
	return bits.OnesCount8(uint8(value))%2 == 0
}

// setZSP updates the zero, sign and parity flags from an 8-bit result.
func (cpu *Cpu) setZSP(value uint16) {
	value &= 0xff
	cpu.F.Assign(register.FLAG_ZERO, value == 0)
	cpu.F.Assign(register.FLAG_SIGN, value&0x80 != 0)
	cpu.F.Assign(register.FLAG_PARITY, parity(value))
}

// alu applies an arithmetic or logic operation between A and an operand.
// CMP leaves A untouched, and computes into TMP.
func (cpu *Cpu) alu(op AluOp, operand register.Cell) (err error) {
	value, err := operand.Read()
	if err != nil {
		return
	}

	return cpu.aluValue(op, value)
}

func (cpu *Cpu) aluValue(op AluOp, value uint16) (err error) {
	a := cpu.A.Value()
	value &= 0xff

	var carry uint16
	if (op == ALU_ADC || op == ALU_SBB) && cpu.F.Carry() {
		carry = 1
	}

	switch op {
	case ALU_ADD, ALU_ADC:
		cy := cpu.A.Set(int(a) + int(value) + int(carry))
		cpu.F.Assign(register.FLAG_CARRY, cy)
		cpu.F.Assign(register.FLAG_AUX_CARRY, (a&0xf)+(value&0xf)+carry > 0xf)
		cpu.setZSP(cpu.A.Value())
	case ALU_SUB, ALU_SBB, ALU_CMP:
		dst := cpu.A
		if op == ALU_CMP {
			dst = cpu.TMP
		}
		borrow := dst.Set(int(a) - int(value) - int(carry))
		cpu.F.Assign(register.FLAG_CARRY, borrow)
		cpu.F.Assign(register.FLAG_AUX_CARRY, (a&0xf) >= (value&0xf)+carry)
		cpu.setZSP(dst.Value())
	case ALU_ANA:
		cpu.A.And(value)
		cpu.F.Clear(register.FLAG_CARRY)
		cpu.F.Assign(register.FLAG_AUX_CARRY, (a|value)&0x08 != 0)
		cpu.setZSP(cpu.A.Value())
	case ALU_XRA:
		cpu.A.Xor(value)
		cpu.F.Clear(register.FLAG_CARRY)
		cpu.F.Clear(register.FLAG_AUX_CARRY)
		cpu.setZSP(cpu.A.Value())
	case ALU_ORA:
		cpu.A.Or(value)
		cpu.F.Clear(register.FLAG_CARRY)
		cpu.F.Clear(register.FLAG_AUX_CARRY)
		cpu.setZSP(cpu.A.Value())
	}

	return
}

// step increments (delta 1) or decrements (delta -1) a cell.
// Carry is not affected.
func (cpu *Cpu) step(cell register.Cell, delta int) (err error) {
	value, err := cell.Read()
	if err != nil {
		return
	}

	result := (int(value) + delta) & 0xff
	_, err = cell.Write(result)
	if err != nil {
		return
	}

	if delta > 0 {
		cpu.F.Assign(register.FLAG_AUX_CARRY, value&0xf == 0xf)
	} else {
		cpu.F.Assign(register.FLAG_AUX_CARRY, result&0xf != 0xf)
	}
	cpu.setZSP(uint16(result))
	return
}

// decimalAdjust performs DAA on the accumulator.
func (cpu *Cpu) decimalAdjust() {
	a := cpu.A.Value()
	carry := cpu.F.Carry()

	var correction uint16
	if a&0xf > 9 || cpu.F.AuxCarry() {
		correction |= 0x06
	}
	if a>>4 > 9 || (a>>4 >= 9 && a&0xf > 9) || carry {
		correction |= 0x60
		carry = true
	}

	cpu.F.Assign(register.FLAG_AUX_CARRY, (a&0xf)+(correction&0xf) > 0xf)
	cpu.A.Set(int(a + correction))
	cpu.F.Assign(register.FLAG_CARRY, carry)
	cpu.setZSP(cpu.A.Value())
}
