package io

import (
	"errors"
	"io"
)

// Tape provides sequential byte I/O. Input bytes are read from an
// io.Reader, output bytes are written to an io.Writer.
//
// Reading past the end of the input tape returns 0.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	ReadCount  int // Bytes read since Rewind.
	WriteCount int // Bytes written since Rewind.
	atEnd      bool
}

var _ Port = (*Tape)(nil)

// Rewind resets the counters. The streams themselves cannot be rewound.
func (tc *Tape) Rewind() {
	tc.ReadCount = 0
	tc.WriteCount = 0
	tc.atEnd = false
}

// AtEnd returns true once a read has hit the end of the input tape.
func (tc *Tape) AtEnd() bool {
	return tc.atEnd
}

// In reads the next byte of the input tape.
func (tc *Tape) In() (value byte, err error) {
	if tc.Input == nil {
		err = ErrPortInput
		return
	}

	if tc.atEnd {
		return
	}

	var one [1]byte
	_, err = io.ReadFull(tc.Input, one[:])
	if errors.Is(err, io.EOF) {
		tc.atEnd = true
		err = nil
		return
	}
	if err != nil {
		return
	}

	tc.ReadCount++
	value = one[0]
	return
}

// Out writes a byte to the output tape.
func (tc *Tape) Out(value byte) (err error) {
	if tc.Output == nil {
		err = ErrPortOutput
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		return
	}

	tc.WriteCount++
	return
}
