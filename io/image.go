package io

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
)

// Format is a program image text format, named by its file extension.
// The value is the number base of the digits on each line.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_HEX = Format(16) // .hex
	FORMAT_BIN = Format(2)  // .bin
)

// Digits returns the number of digits per image line.
func (format Format) Digits() int {
	if format == FORMAT_BIN {
		return 8
	}
	return 2
}

// FormatOf selects the image format from a file name's extension.
func FormatOf(name string) (format Format, err error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range []Format{FORMAT_HEX, FORMAT_BIN} {
		if known.String() == ext {
			format = known
			return
		}
	}

	err = ErrImageFormat
	return
}

// ReadImage parses a program image, one byte per line.
// Only the leading Digits() characters of a line are significant.
// Blank lines are ignored.
func ReadImage(input io.Reader, format Format) (data []byte, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		token := line[:min(len(line), format.Digits())]
		var value uint64
		value, err = strconv.ParseUint(token, int(format), 8)
		if err != nil {
			err = ErrImageToken{LineNo: lineno, Token: token}
			return
		}
		data = append(data, byte(value))
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if len(data) == 0 {
		err = ErrImageEmpty
	}

	return
}

// WriteImage writes a program image, one byte per line.
func WriteImage(output io.Writer, format Format, data []byte) (err error) {
	w := bufio.NewWriter(output)

	for _, value := range data {
		switch format {
		case FORMAT_BIN:
			_, err = fmt.Fprintf(w, "%08b\n", value)
		default:
			_, err = fmt.Fprintf(w, "%02x\n", value)
		}
		if err != nil {
			return
		}
	}

	return w.Flush()
}

// LoadImage reads a program image from a file system, selecting the
// format by the file's extension.
func LoadImage(filesys fs.FS, name string) (data []byte, err error) {
	format, err := FormatOf(name)
	if err != nil {
		return
	}

	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return ReadImage(inf, format)
}
