package io

import (
	"fmt"
	"io"
)

// Display is an output-only port that prints each byte written to it in
// binary and hexadecimal, one per line.
type Display struct {
	Writer io.Writer // Destination of the display lines. May be nil.
	Last   byte      // Last value displayed.
	Count  int       // Values displayed since Rewind.
}

var _ Port = (*Display)(nil)

// Rewind clears the display history.
func (disp *Display) Rewind() {
	disp.Last = 0
	disp.Count = 0
}

// In is not possible on a display.
func (disp *Display) In() (value byte, err error) {
	err = ErrPortInput
	return
}

// Out displays value.
func (disp *Display) Out(value byte) (err error) {
	disp.Last = value
	disp.Count++

	if disp.Writer == nil {
		return
	}

	_, err = fmt.Fprintf(disp.Writer, "%08b %02x\n", value, value)
	return
}
