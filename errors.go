package gd

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors returned by every Device operation. Backends wrap them with
// the native cause; use errors.Is or CodeOf to classify.
var (
	// ErrUnknown reports a native graphics call that failed for a reason not
	// otherwise classified (map failure, copy failure, staging allocation).
	ErrUnknown = errors.New("gd: unknown native failure")

	// ErrNotAvailable reports an operation the backend never implements.
	// It is not transient.
	ErrNotAvailable = errors.New("gd: operation not available on this backend")

	// ErrInvalidParameter reports a null handle, a zero size, an unsupported
	// format or an undersized destination.
	ErrInvalidParameter = errors.New("gd: invalid parameter")

	// ErrOutOfMemory is reserved for allocation failures a backend can
	// classify as such.
	ErrOutOfMemory = errors.New("gd: out of memory")

	// ErrInaccessibleFromCPU is reserved for resources that can be neither
	// mapped nor staged.
	ErrInaccessibleFromCPU = errors.New("gd: resource inaccessible from CPU")

	// ErrReleased reports a transfer on an adapter after its Release. It
	// wraps ErrNotAvailable.
	ErrReleased = fmt.Errorf("%w: device released", ErrNotAvailable)
)

// Code is the integer result code of an operation, for hosts that speak the
// numeric ABI instead of Go errors.
type Code int

// Result codes, in ABI order.
const (
	CodeOK Code = iota
	CodeUnknown
	CodeNotAvailable
	CodeInvalidParameter
	CodeOutOfMemory
	CodeInaccessibleFromCPU
)

var codeNames = [...]string{
	CodeOK:                  "OK",
	CodeUnknown:             "Unknown",
	CodeNotAvailable:        "NotAvailable",
	CodeInvalidParameter:    "InvalidParameter",
	CodeOutOfMemory:         "OutOfMemory",
	CodeInaccessibleFromCPU: "InaccessibleFromCPU",
}

// String returns the code name.
func (c Code) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// CodeOf maps err to its result code. A nil error is CodeOK and any error
// that wraps none of the sentinels is CodeUnknown.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotAvailable):
		return CodeNotAvailable
	case errors.Is(err, ErrInvalidParameter):
		return CodeInvalidParameter
	case errors.Is(err, ErrOutOfMemory):
		return CodeOutOfMemory
	case errors.Is(err, ErrInaccessibleFromCPU):
		return CodeInaccessibleFromCPU
	}
	return CodeUnknown
}

// Err returns the sentinel error for c, or nil for CodeOK.
func (c Code) Err() error {
	switch c {
	case CodeOK:
		return nil
	case CodeNotAvailable:
		return ErrNotAvailable
	case CodeInvalidParameter:
		return ErrInvalidParameter
	case CodeOutOfMemory:
		return ErrOutOfMemory
	case CodeInaccessibleFromCPU:
		return ErrInaccessibleFromCPU
	}
	return ErrUnknown
}
