// Package fault holds the two error kinds every package in this module reports.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument covers wrong key sizes, out-of-range protocol fields,
	// bit lengths that exceed their buffer and oversized messages.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPrimitiveFault is returned when an underlying cipher, keystream
	// generator or permutation refuses its own input.
	ErrPrimitiveFault = errors.New("primitive fault")
)

// Error describes a single failed call.  Kind is one of the sentinels above.
type Error struct {
	Kind    error
	Op      string
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Invalid builds an ErrInvalidArgument error for field of op.
func Invalid(op, field, format string, args ...interface{}) error {
	return &Error{
		Kind:    ErrInvalidArgument,
		Op:      op,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Primitive wraps an error coming out of a cipher or generator.
func Primitive(op string, cause error) error {
	return &Error{
		Kind:  ErrPrimitiveFault,
		Op:    op,
		Cause: cause,
	}
}

// Length checks that buf has exactly one of the allowed sizes.
func Length(op, field string, buf []byte, sizes ...int) error {
	for _, n := range sizes {
		if len(buf) == n {
			return nil
		}
	}
	if len(sizes) == 1 {
		return Invalid(op, field, "want %d bytes, got %d", sizes[0], len(buf))
	}
	return Invalid(op, field, "want one of %v bytes, got %d", sizes, len(buf))
}

// Join chains errors the same way errors.Join does, dropping nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
