// Package memory implements the flat byte-addressable store of the SAP-3
// computer.
//
// Every cell is eight bits wide. Writes are masked to the cell width and
// every access is range checked against the store's size.
package memory

import (
	"bytes"
	"iter"

	"github.com/ezrec/sap3/internal"
)

const (
	SIZE      = 1 << 16 // Default memory size, in bytes.
	WIDTH     = 8       // Width of a memory cell, in bits.
	MAX_VALUE = (1 << WIDTH) - 1
	DUMP_ROW  = 16 // Bytes per row of Dump.
)

// Memory is the simulation of the SAP-3 memory array.
type Memory struct {
	cells []byte
}

// New creates a zero-filled memory of size bytes.
func New(size int) (mem *Memory) {
	mem = &Memory{
		cells: make([]byte, size),
	}

	return
}

// Size returns the number of addressable bytes.
func (mem *Memory) Size() int {
	return len(mem.cells)
}

// Width returns the bit width of a memory cell.
func (mem *Memory) Width() uint {
	return WIDTH
}

func (mem *Memory) check(address int) (err error) {
	if address < 0 || address >= len(mem.cells) {
		err = ErrAddress{Address: address, Size: len(mem.cells)}
	}
	return
}

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value byte, err error) {
	err = mem.check(address)
	if err != nil {
		return
	}

	value = mem.cells[address]
	return
}

// Write stores value, masked to 8 bits, at address.
func (mem *Memory) Write(address int, value int) (err error) {
	err = mem.check(address)
	if err != nil {
		return
	}

	mem.cells[address] = byte(value & MAX_VALUE)
	return
}

// Load copies data into memory starting at start.
// Memory outside of the loaded range is unchanged.
func (mem *Memory) Load(data []byte, start int) (err error) {
	err = mem.check(start)
	if err != nil {
		return
	}

	if start+len(data) > len(mem.cells) {
		err = ErrProgramTooLarge
		return
	}

	copy(mem.cells[start:], data)
	return
}

// Clear zero-fills the memory.
func (mem *Memory) Clear() {
	clear(mem.cells)
}

// Peek reads a byte for external tooling. Out of range addresses read as 0.
func (mem *Memory) Peek(address int) (value byte) {
	value, _ = mem.Read(address)
	return
}

// Poke writes a byte for external tooling. Out of range addresses are ignored.
func (mem *Memory) Poke(address int, value byte) {
	_ = mem.Write(address, int(value))
}

// Bytes returns a copy of the memory in [start, end).
func (mem *Memory) Bytes(start, end int) (data []byte, err error) {
	err = mem.check(start)
	if err != nil {
		return
	}
	if end < start || end > len(mem.cells) {
		err = ErrAddress{Address: end, Size: len(mem.cells)}
		return
	}

	data = bytes.Clone(mem.cells[start:end])
	return
}

// Dump yields DUMP_ROW byte rows covering [start, end), keyed by the
// row address. The row range is widened to row boundaries.
//
// A run of rows identical to the row before it is reported once, as a
// nil row at the address of the first repeat. The final row is always
// yielded.
func (mem *Memory) Dump(start, end int) iter.Seq2[int, []byte] {
	start = max(0, (start/DUMP_ROW)*DUMP_ROW)
	end = min(len(mem.cells), ((end+DUMP_ROW-1)/DUMP_ROW)*DUMP_ROW)

	return func(yield func(address int, row []byte) bool) {
		if start >= end {
			return
		}

		var prior []byte
		elided := false
		last := start + ((end-start-1)/DUMP_ROW)*DUMP_ROW
		for offset, row := range internal.IterChunk(mem.cells[start:end], DUMP_ROW) {
			address := start + offset
			if address != last && prior != nil && bytes.Equal(prior, row) {
				if !elided {
					elided = true
					if !yield(address, nil) {
						return
					}
				}
				continue
			}
			elided = false
			prior = row
			if !yield(address, bytes.Clone(row)) {
				return
			}
		}
	}
}
