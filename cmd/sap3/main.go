// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	stdio "io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"golang.org/x/term"

	"github.com/ezrec/sap3/cpu"
	"github.com/ezrec/sap3/emulator"
	"github.com/ezrec/sap3/io"
	"github.com/ezrec/sap3/translate"
)

var f = translate.From

var errStepAborted = errors.New(f("stepping aborted before halt"))

// ErrRange reports an unparsable START:END memory range.
type ErrRange string

func (err ErrRange) Error() string {
	return f("'%v' is not a START:END range", string(err))
}

// parseRange parses a START:END memory range.
func parseRange(text string) (start, end int, err error) {
	first, last, ok := strings.Cut(text, ":")
	if !ok {
		err = ErrRange(text)
		return
	}

	v, err := strconv.ParseUint(first, 0, 16)
	if err != nil {
		err = ErrRange(text)
		return
	}
	start = int(v)

	v, err = strconv.ParseUint(last, 0, 17)
	if err != nil || v > 0x10000 {
		err = ErrRange(text)
		return
	}
	end = int(v)

	return
}

// execute ticks the emulator until the CPU halts or faults.
// In step mode the CPU state is written to trace before every
// instruction, and if prompt is set a line is read from it first.
func execute(emu *emulator.Emulator, step bool, prompt *bufio.Reader, trace stdio.Writer) (err error) {
	for done := false; !done; {
		if step {
			translate.Fprintf(trace, "line %d\n%v", emu.LineNo(), emu.Cpu.String())
			if prompt != nil {
				translate.Fprintf(trace, "[enter to step] ")
				_, err = prompt.ReadString('\n')
				if err != nil {
					err = errStepAborted
					return
				}
			}
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// dumpMemory prints a hex dump of memory in [start, end).
func dumpMemory(emu *emulator.Emulator, start, end int) {
	for address, row := range emu.Cpu.Memory.Dump(start, end) {
		if row == nil {
			fmt.Println("*")
			continue
		}
		fmt.Printf("%04x: % 02x\n", address, row)
	}
}

func main() {
	var compile string
	var load string
	var start uint
	var save string
	var input string
	var output string
	var frequency int
	var switches uint
	var dump string
	var step bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s assembly file to compile")
	flag.StringVar(&load, "l", "", ".hex or .bin image file to load")
	flag.UintVar(&start, "a", 0, "Load address of the -l image")
	flag.StringVar(&save, "s", "", "Save image to .hex or .bin file, do not execute")
	flag.StringVar(&input, "i", "", "Tape input ('-' for stdin)")
	flag.StringVar(&output, "o", "", "Tape output ('-' for stdout)")
	flag.IntVar(&frequency, "f", 0, "Clock frequency in Hz (0 for unpaced)")
	flag.UintVar(&switches, "w", 0, "Initial switch bank value")
	flag.StringVar(&dump, "d", "", "Dump memory START:END after execution")
	flag.BoolVar(&step, "step", false, "Single step mode")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(load) != 0 {
		log.Fatalf("%v: -c and -l are exclusive", os.Args[0])
	}

	if start > 0xffff {
		log.Fatalf("%v: -a 0x%x: out of range", os.Args[0], start)
	}

	if switches > 0xff {
		log.Fatalf("%v: -w 0x%x: out of range", os.Args[0], switches)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Clock.Frequency = frequency
	emu.Switches.Initial = byte(switches)
	emu.Display.Writer = os.Stdout

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a binary image.
	if len(load) != 0 {
		data, err := io.LoadImage(os.DirFS(filepath.Dir(load)), filepath.Base(load))
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		emu.SetImage(uint16(start), data)
	}

	origin, data := emu.Program.Image()
	if verbose {
		log.Printf("sap3: image 0x%04x, %d bytes, xxhash %016x", origin, len(data), xxhash.Sum64(data))
	}

	if len(save) != 0 {
		format, err := io.FormatOf(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()
		err = io.WriteImage(ouf, format, data)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	interactive := step && term.IsTerminal(int(os.Stdin.Fd()))

	switch input {
	case "":
	case "-":
		if interactive {
			log.Fatalf("%v: -i - conflicts with interactive -step", os.Args[0])
		}
		emu.Tape.Input = os.Stdin
	default:
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	switch output {
	case "":
	case "-":
		emu.Tape.Output = os.Stdout
	default:
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	var prompt *bufio.Reader
	if interactive {
		prompt = bufio.NewReader(os.Stdin)
	}

	err = execute(emu, step, prompt, os.Stderr)
	if errors.Is(err, errStepAborted) {
		translate.Fprintf(os.Stderr, "\n%v at line %d after %d T-states\n", err, emu.LineNo(), emu.Ticks())
		return
	}
	if err != nil {
		log.Print(emu.Cpu.String())
		log.Fatal(err)
	}

	translate.Fprintf(os.Stderr, "%v", emu.Cpu.String())
	translate.Fprintf(os.Stderr, "halted after %d T-states\n", emu.Ticks())

	if len(dump) != 0 {
		first, last, err := parseRange(dump)
		if err != nil {
			log.Fatalf("-d %v: %v", dump, err)
		}
		dumpMemory(emu, first, last)
	}
}
