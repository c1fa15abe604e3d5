// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sap3/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"MEMORY_SIZE": fmt.Sprintf("%#v", memory.SIZE),
}

// Assembler is a single pass macro assembler for the SAP-3 system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin    int // Address of the next assembled byte.
	expansion int // Count of macro expansions, for '@' label mangling.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Operand names that are registers, register pairs or PSW.
var registerNames = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true,
	"H": true, "L": true, "M": true, "SP": true, "PSW": true,
}

var reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var reChar = regexp.MustCompile(`'\\?[^']'`)
var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// valueOf returns the value of a simple word.
// Go integer literals and 8080 style 'H' and 'B' suffixes are accepted.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		v64, err = parseSuffixed(word)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
	}

	value = int(v64)
	if invert {
		value = ^value
	}

	return
}

// parseSuffixed parses 8080 style numbers, ie 1FH or 0101B.
func parseSuffixed(word string) (value int64, err error) {
	if len(word) < 2 || !unicode.IsDigit(rune(word[0])) {
		err = strconv.ErrSyntax
		return
	}

	digits := word[:len(word)-1]
	switch word[len(word)-1] {
	case 'h', 'H':
		value, err = strconv.ParseInt(digits, 16, 32)
	case 'b', 'B':
		value, err = strconv.ParseInt(digits, 2, 32)
	default:
		err = strconv.ErrSyntax
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var ivalue int
		ivalue, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(ivalue)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// outsideQuotes applies fn to the parts of line outside of double quotes.
func outsideQuotes(line string, fn func(string) string) string {
	var out strings.Builder
	start := 0
	quoted := false
	escaped := false
	for n, ch := range line {
		switch {
		case escaped:
			escaped = false
		case quoted && ch == '\\':
			escaped = true
		case ch == '"':
			if quoted {
				out.WriteString(line[start : n+1])
				start = n + 1
			} else {
				out.WriteString(fn(line[start:n]))
				start = n
			}
			quoted = !quoted
		}
	}
	if quoted {
		out.WriteString(line[start:])
	} else {
		out.WriteString(fn(line[start:]))
	}

	return out.String()
}

// stripComment removes a trailing ';' comment, honoring quotes.
func stripComment(text string) string {
	var quote rune
	escaped := false
	for n, ch := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && ch == '\\':
			escaped = true
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ';':
			return text[:n]
		}
	}

	return text
}

// splitWords splits a line on whitespace and commas, keeping double
// quoted strings whole.
func splitWords(line string) (words []string, err error) {
	var word strings.Builder
	quoted := false
	escaped := false

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for _, ch := range line {
		switch {
		case quoted:
			word.WriteRune(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				quoted = false
			}
		case ch == '"':
			word.WriteRune(ch)
			quoted = true
		case ch == ',' || unicode.IsSpace(ch):
			flush()
		default:
			word.WriteRune(ch)
		}
	}

	if quoted {
		err = ErrStringUnterminated
		return
	}

	flush()
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line = outsideQuotes(line, func(text string) string {
		// Do 'x' evaluations
		text = reChar.ReplaceAllStringFunc(text, func(word string) string {
			str := word[1 : len(word)-1]
			if str[0] == '\\' {
				str = str[1:]
				switch str {
				case "\\":
					str = "\\"
				case "'":
					str = "'"
				case "n":
					str = "\n"
				case "r":
					str = "\r"
				case "t":
					str = "\t"
				case "0":
					str = "\x00"
				case "e":
					str = "\033"
				default:
					return word
				}
			} else if len(str) != 1 {
				return word
			}
			return fmt.Sprintf("%v", str[0])
		})

		// Do $() evaluations
		return reParen.ReplaceAllStringFunc(text, func(str string) string {
			value, _err := asm.parenEval(str[2 : len(str)-1])
			if _err != nil {
				err = _err
			}
			return fmt.Sprintf("%#v", value)
		})
	})
	if err != nil {
		return
	}

	words, err = splitWords(line)
	if err != nil {
		return
	}

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) || registerNames[strings.ToUpper(label)] {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.origin
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		prefix := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", prefix)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.origin = 0
	asm.expansion = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.EqualFold(words[0], ".macro") {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			for _, arg := range words[2:] {
				arg = strings.Trim(arg, ",")
				if len(arg) > 0 {
					macro.Args = append(macro.Args, arg)
				}
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.EqualFold(words[0], ".endm") {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		for _, link := range op.Links {
			address, ok := asm.Label[link.Label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			if link.Size == 1 && address > 0xff {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrOpcodeRange
				return
			}
			op.Bytes[link.Offset] = byte(address)
			if link.Size == 2 {
				op.Bytes[link.Offset+1] = byte(address >> 8)
			}
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// emit appends assembled bytes at the current origin.
func (asm *Assembler) emit(lineno int, words []string, data []byte, links []Link) (err error) {
	if asm.origin+len(data) > memory.SIZE {
		err = memory.ErrProgramTooLarge
		return
	}

	opcode := Opcode{
		LineNo:  lineno,
		Address: asm.origin,
		Words:   words,
		Bytes:   data,
		Links:   links,
	}
	asm.Opcode = append(asm.Opcode, opcode)
	asm.origin += len(data)

	return
}

// immediate resolves an operand into size bytes at offset, or a label link.
func (asm *Assembler) immediate(word string, data []byte, offset int, size int) (links []Link, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		if !reLabel.MatchString(word) {
			return
		}
		err = nil
		links = append(links, Link{Label: word, Offset: offset, Size: size})
		return
	}

	limit := 1 << (8 * size)
	if value < -(limit/2) || value >= limit {
		err = ErrOpcodeRange
		return
	}

	data[offset] = byte(value)
	if size == 2 {
		data[offset+1] = byte(value >> 8)
	}

	return
}

// directive handles the data and origin directives.
func (asm *Assembler) directive(words []string, lineno int) (err error) {
	args := words[1:]

	switch strings.ToLower(words[0]) {
	case ".org":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			return
		}
		var value int
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value < 0 || value >= memory.SIZE {
			err = ErrOpcodeRange
			return
		}
		asm.origin = value
	case ".ds":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			return
		}
		var value int
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value < 0 || asm.origin+value > memory.SIZE {
			err = ErrOpcodeRange
			return
		}
		asm.origin += value
	case ".db", ".dw":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		size := 1
		if strings.ToLower(words[0]) == ".dw" {
			size = 2
		}
		var data []byte
		var links []Link
		for _, arg := range args {
			if size == 1 && strings.HasPrefix(arg, `"`) {
				var str string
				str, err = strconv.Unquote(arg)
				if err != nil {
					err = ErrStringUnterminated
					return
				}
				data = append(data, str...)
				continue
			}
			offset := len(data)
			data = append(data, make([]byte, size)...)
			var link []Link
			link, err = asm.immediate(arg, data, offset, size)
			if err != nil {
				return
			}
			links = append(links, link...)
		}
		err = asm.emit(lineno, words, data, links)
	default:
		err = ErrDirectiveInvalid
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if strings.HasPrefix(words[0], ".") {
		return asm.directive(words, lineno)
	}

	mnemonic := strings.ToUpper(words[0])

	var operands []string
	var immediate string
	for _, word := range words[1:] {
		name := strings.ToUpper(word)
		switch {
		case registerNames[name]:
			operands = append(operands, name)
		case len(immediate) > 0:
			err = ErrOpcodeExtraArgs
			return
		default:
			immediate = word
			operands = append(operands, IMMEDIATE)
		}
	}

	// RST takes its vector number as a literal operand.
	if mnemonic == "RST" && len(immediate) > 0 {
		var value int
		value, err = asm.valueOf(immediate)
		if err != nil {
			return
		}
		if value < 0 || value > 7 {
			err = ErrOpcodeRange
			return
		}
		operands = []string{fmt.Sprint(value)}
		immediate = ""
	}

	key := mnemonic
	if len(operands) > 0 {
		key += " " + strings.Join(operands, ",")
	}

	opcode, ok := mnemonicTable[key]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	inst := &instructionTable[opcode]
	data := make([]byte, inst.Size)
	data[0] = opcode

	var links []Link
	if inst.Size > 1 {
		if len(immediate) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		links, err = asm.immediate(immediate, data, 1, inst.Size-1)
		if err != nil {
			return
		}
	}

	if asm.Verbose {
		log.Printf("asm: %04x: %v % 02x", asm.origin, key, data)
	}

	return asm.emit(lineno, words, data, links)
}
