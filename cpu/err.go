package cpu

import (
	"errors"

	"github.com/ezrec/sap3/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeRange        = errors.New(f("value out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrStringUnterminated = errors.New(f("string unterminated"))
)

// ErrOpcode reports an opcode with no instruction table entry.
type ErrOpcode struct {
	Address uint16 // Address the opcode was fetched from.
	Opcode  byte   // The opcode.
}

func (eo ErrOpcode) Error() string {
	return f("invalid opcode 0x%02x at address 0x%04x", eo.Opcode, eo.Address)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrPort reports an I/O instruction on a port with no device.
type ErrPort struct {
	Port byte
}

func (ep ErrPort) Error() string {
	return f("invalid port 0x%02x", ep.Port)
}

func (ep ErrPort) Is(err error) (ok bool) {
	_, ok = err.(ErrPort)
	return
}

// ErrProgramCounter reports an instruction fetch beyond the end of memory.
type ErrProgramCounter struct {
	Address uint16
}

func (ep ErrProgramCounter) Error() string {
	return f("program counter 0x%04x beyond end of memory", ep.Address)
}

func (ep ErrProgramCounter) Is(err error) (ok bool) {
	_, ok = err.(ErrProgramCounter)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
