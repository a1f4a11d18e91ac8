package ecc

import (
	"errors"
	"fmt"
)

// Common errors returned by the ecc packages.
var (
	ErrModulusMismatch    = errors.New("operands belong to different moduli")
	ErrPointNotOnCurve    = errors.New("point is not on curve")
	ErrInvalidEncoding    = errors.New("invalid encoding")
	ErrUnknownCurve       = errors.New("unknown curve")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrCurveMismatch      = errors.New("values belong to different curves")
	ErrInvalidScalar      = errors.New("scalar out of range")

	// ErrLabelMismatch is returned when an armored block carries an unexpected label.
	ErrLabelMismatch = fmt.Errorf("%w: label mismatch", ErrInvalidEncoding)
)

// Error records the operation that failed along with the underlying cause.
// Callers match the cause with errors.Is against the sentinels above.
type Error struct {
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(op, detail string, err error) *Error {
	return &Error{
		Op:     op,
		Detail: detail,
		Err:    err,
	}
}
