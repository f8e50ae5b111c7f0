// Package errs defines the error taxonomy shared by every codec in
// this module: InvalidData (malformed input), TypeError (API misuse),
// and Unsupported (well-formed input using a feature this codec
// doesn't implement). Each is both a concrete type carrying a reason
// string and cause, and an errors.Is-matchable sentinel category, the
// same two-layer shape hivekit uses for ErrSignatureMismatch and
// friends in internal/format/errors.go.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel categories. Use errors.Is(err, errs.ErrInvalidData) etc. to
// classify an error returned by any of byml/aamp/sarc/yaz0 without
// caring which concrete type produced it.
var (
	ErrInvalidData = errors.New("invalid data")
	ErrTypeError   = errors.New("type error")
	ErrUnsupported = errors.New("unsupported")
)

// InvalidDataError reports malformed input: bad magic, a version
// outside the supported range, an offset that falls outside the
// buffer, a non-monotonic string table, and similar.
type InvalidDataError struct {
	Reason string
	Cause  error
}

func (e *InvalidDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid data: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid data: %s", e.Reason)
}

// Is makes errors.Is(err, errs.ErrInvalidData) true for every
// *InvalidDataError, regardless of reason or wrapped cause.
func (e *InvalidDataError) Is(target error) bool { return target == ErrInvalidData }

// Unwrap exposes the wrapped cause, if any, so errors.Is/As can reach
// through to it.
func (e *InvalidDataError) Unwrap() error { return e.Cause }

// InvalidData constructs an *InvalidDataError with no wrapped cause.
func InvalidData(reason string, args ...any) error {
	return &InvalidDataError{Reason: fmt.Sprintf(reason, args...)}
}

// InvalidDataWrap wraps cause in an *InvalidDataError, preserving it
// for errors.Unwrap/errors.As chains.
func InvalidDataWrap(cause error, reason string, args ...any) error {
	return &InvalidDataError{Reason: fmt.Sprintf(reason, args...), Cause: cause}
}

// TypeErrorErr reports a caller using the wrong typed getter for a
// node's actual kind (e.g. calling GetString on an Int node).
type TypeErrorErr struct {
	Reason string
}

func (e *TypeErrorErr) Error() string            { return fmt.Sprintf("type error: %s", e.Reason) }
func (e *TypeErrorErr) Is(target error) bool     { return target == ErrTypeError }

// TypeError constructs a *TypeErrorErr.
func TypeError(reason string, args ...any) error {
	return &TypeErrorErr{Reason: fmt.Sprintf(reason, args...)}
}

// UnsupportedErr reports a well-formed input that uses a feature this
// codec does not implement (BYML path-table nodes, AAMP v1, and so
// on).
type UnsupportedErr struct {
	Reason string
}

func (e *UnsupportedErr) Error() string        { return fmt.Sprintf("unsupported: %s", e.Reason) }
func (e *UnsupportedErr) Is(target error) bool { return target == ErrUnsupported }

// Unsupported constructs an *UnsupportedErr.
func Unsupported(reason string, args ...any) error {
	return &UnsupportedErr{Reason: fmt.Sprintf(reason, args...)}
}
