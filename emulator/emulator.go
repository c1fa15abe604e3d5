// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/sap3/cpu"
	"github.com/ezrec/sap3/internal"
	"github.com/ezrec/sap3/io"
	"github.com/ezrec/sap3/memory"
)

// Port assignments.
const (
	PORT_TAPE_IN  = 1 // Tape input.
	PORT_SWITCHES = 2 // Switch bank latch.
	PORT_DISPLAY  = 3 // Output display.
	PORT_TAPE_OUT = 4 // Tape output.
)

var _emulator_defines = map[string]string{
	"PORT_TAPE_IN":  fmt.Sprintf("%#v", PORT_TAPE_IN),
	"PORT_SWITCHES": fmt.Sprintf("%#v", PORT_SWITCHES),
	"PORT_DISPLAY":  fmt.Sprintf("%#v", PORT_DISPLAY),
	"PORT_TAPE_OUT": fmt.Sprintf("%#v", PORT_TAPE_OUT),
}

// Emulator state. CPU + program + I/O ports + clock.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape     io.Tape    // Tape on PORT_TAPE_IN and PORT_TAPE_OUT.
	Switches io.Latch   // Switch bank on PORT_SWITCHES.
	Display  io.Display // Display on PORT_DISPLAY.
	Clock    Clock      // Cycle pacing clock.
}

// NewEmulator creates a new emulator with a full size memory.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(memory.SIZE),
		Program: &cpu.Program{},
	}

	emu.Cpu.SetPort(PORT_TAPE_IN, &emu.Tape)
	emu.Cpu.SetPort(PORT_SWITCHES, &emu.Switches)
	emu.Cpu.SetPort(PORT_DISPLAY, &emu.Display)
	emu.Cpu.SetPort(PORT_TAPE_OUT, &emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	clock := map[string]string{
		"CLOCK_HZ": fmt.Sprintf("%#v", emu.Clock.Frequency),
	}

	return internal.IterSeq2Concat(maps.All(_emulator_defines), maps.All(clock))
}

// SetImage replaces the program with a raw memory image.
// The image has no source lines.
func (emu *Emulator) SetImage(start uint16, data []byte) {
	emu.Program = &cpu.Program{
		Opcodes: []cpu.Opcode{
			{Address: int(start), Bytes: data},
		},
	}
}

// Reset the emulator state.
// - Resets the CPU.
// - Clears memory and loads the program image.
// - Sets PC to the start of the program image.
// - Rewinds the I/O devices, and restarts the clock.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Cpu.Memory.Clear()

	start, data := emu.Program.Image()
	err = emu.Cpu.Load(data, int(start))
	if err != nil {
		return
	}
	emu.Cpu.PC.Set(int(start))

	emu.Tape.Rewind()
	emu.Switches.Rewind()
	emu.Display.Rewind()
	emu.Clock.Reset()

	return
}

// Ticks returns the total T-states since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC.Value())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	address := emu.Cpu.PC.Value()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Address: address, Err: err}
		}
	}()

	ticks := emu.Cpu.Ticks
	done, err = emu.Cpu.Step()
	if err != nil {
		emu.Clock.Stop()
		return
	}

	emu.Clock.Pulse(emu.Cpu.Ticks - ticks)

	if done {
		emu.Clock.Stop()
		if emu.Verbose {
			log.Printf("emulator: halted after %d ticks", emu.Cpu.Ticks)
		}
	}

	return
}

// Run ticks the emulator until the CPU halts or faults.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
