package compressor

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Kind classifies a core error per spec §7, so callers can distinguish
// e.g. a capability error (fall back to Decompress+add) from a fatal
// configuration mistake.
type Kind int

const (
	// KindConfiguration covers unknown compressor names, invalid
	// parameters, and malformed parameter strings.
	KindConfiguration Kind = iota
	// KindShape covers unknown/zero shapes and input/residual element
	// count mismatches.
	KindShape
	// KindDevice covers input/output device mismatches and disabled
	// accelerator support.
	KindDevice
	// KindCapability covers DecompressAndAdd on a scheme that doesn't
	// support fast aggregation.
	KindCapability
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindShape:
		return "shape"
	case KindDevice:
		return "device"
	case KindCapability:
		return "capability"
	default:
		return "unknown"
	}
}

// Error is a core error tagged with its Kind. Configuration, Shape, and
// Device errors are fatal (spec §7): production call sites are expected
// to let them propagate as a panic via exceptions.Panicf, not to retry.
// Capability errors are the one kind a caller is expected to catch and
// react to (fall back to Decompress + element-wise add).
type Error struct {
	Kind Kind
	msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.msg, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), Err: cause}
}

// Panic surfaces a fatal *Error through exceptions.Panicf, matching how
// the teacher's backend registry (backends.NewWithConfig) reports
// unrecoverable configuration mistakes: as a panic carrying a stack
// trace, caught at the process boundary.
func Panic(kind Kind, format string, args ...any) {
	exceptions.Panicf("%v", newError(kind, nil, format, args...))
}

// PanicWrap is Panic with a wrapped underlying cause, e.g. a strconv
// failure while parsing a parameter value.
func PanicWrap(kind Kind, cause error, format string, args ...any) {
	exceptions.Panicf("%v", newError(kind, errors.WithStack(cause), format, args...))
}

// ErrNotImplemented is returned by DecompressAndAdd on schemes that
// don't declare SupportsFastAggregate. Unlike Configuration/Shape/Device
// errors this is not panicked -- it is a capability error a caller is
// expected to check for and recover from, per spec §7.
var ErrNotImplemented = &Error{Kind: KindCapability, msg: "decompress_and_add not implemented by this scheme"}
