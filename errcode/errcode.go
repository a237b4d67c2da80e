// Package errcode defines the closed set of HAL result codes.
//
// A Code is a signed integer following the v4 convention: 0 is success,
// negative values are errors. Codes are comparable, allocation-free and
// implement error, so operations can return them directly.
package errcode

import "errors"

type Code int

// Canonical codes (stable values, stable messages).
const (
	OK       Code = 0
	Param    Code = -1  // invalid parameter
	NotInit  Code = -2  // subsystem not initialized
	Timeout  Code = -3  // operation timed out
	Busy     Code = -4  // resource busy
	NoDevice Code = -5  // device not found
	NoMemory Code = -6  // out of memory
	NotSup   Code = -7  // operation not supported
	IO       Code = -8  // I/O failure
	Bounds   Code = -13 // index out of bounds
)

func (c Code) Error() string { return Strerror(c) }

// Strerror returns the human-readable message for a code. The text for each
// member of the closed set is a fixed literal, stable for the lifetime of
// the process.
func Strerror(c Code) string {
	switch c {
	case OK:
		return "success"
	case Param:
		return "invalid parameter"
	case NotInit:
		return "not initialized"
	case Timeout:
		return "timeout"
	case Busy:
		return "resource busy"
	case NoDevice:
		return "device not found"
	case NoMemory:
		return "out of memory"
	case NotSup:
		return "not supported"
	case IO:
		return "I/O error"
	case Bounds:
		return "out of bounds"
	}
	return "unknown error"
}

// E keeps a code together with the operation and the underlying cause.
type E struct {
	C   Code
	Op  string
	Err error
}

func (e *E) Error() string {
	if e.Op != "" {
		return e.Op + ": " + Strerror(e.C)
	}
	return Strerror(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match through an E wrapper.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap annotates err with a code and an operation name. A nil err yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error. Foreign errors map to IO, the generic
// backend-failure member of the closed set.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return IO
}
