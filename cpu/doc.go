// Package cpu implements the microprocessor and assembler for the SAP-3
// computer.
//
// The CPU consists of a 16-bit program counter (PC) and stack pointer (SP),
// an 8-bit accumulator (A), six 8-bit general-purpose registers (B, C, D,
// E, H, L) that also act as the register pairs BC, DE and HL, the memory
// pseudo-register M addressed by HL, a flags register, and 256 byte-wide
// I/O ports. Instructions are fetched from a 64K byte memory and
// dispatched through a fixed 256 entry opcode table implementing the
// 8080-like SAP-3 instruction set.
//
// The assembler provides a SAP-3 assembly language, supporting macros,
// labels, equates, and compile-time expression evaluation.
package cpu
