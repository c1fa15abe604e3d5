package io

import (
	"errors"

	"github.com/ezrec/sap3/translate"
)

var f = translate.From

var (
	// Port errors
	ErrPortInput  = errors.New(f("port is not readable"))
	ErrPortOutput = errors.New(f("port is not writable"))

	// Image errors
	ErrImageEmpty  = errors.New(f("image is empty"))
	ErrImageFormat = errors.New(f("image must have extension .hex or .bin"))
)

// ErrImageToken reports an unparsable line of a program image.
type ErrImageToken struct {
	LineNo int
	Token  string
}

func (err ErrImageToken) Error() string {
	return f("line %d '%v' is not a valid image byte", err.LineNo, err.Token)
}
