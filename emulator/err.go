package emulator

import (
	"errors"

	"github.com/QcO-dev/doc/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	File   string // Include path of the faulting opcode; empty for the root source.
	LineNo int    // Source line of the faulting opcode; 0 if unknown.
	Ip     uint16
	Err    error
}

func (err *ErrRuntime) Error() string {
	switch {
	case err.LineNo == 0:
		return f("ip %#04x %v", err.Ip, err.Err)
	case len(err.File) != 0:
		return f("%v: line %d %v", err.File, err.LineNo, err.Err)
	default:
		return f("line %d %v", err.LineNo, err.Err)
	}
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
