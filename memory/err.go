package memory

import (
	"errors"

	"github.com/ezrec/sap3/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrProgramTooLarge = errors.New(f("program too large"))
)

// ErrAddress reports an access outside of the memory range.
type ErrAddress struct {
	Address int
	Size    int
}

func (err ErrAddress) Error() string {
	return f("address 0x%04x out of bounds (size 0x%04x)", err.Address, err.Size)
}

func (err ErrAddress) Is(target error) (ok bool) {
	_, ok = target.(ErrAddress)
	return
}
