package model

import "errors"

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// current state, e.g. finishing a period when none is active.
	ErrInvalidState = errors.New("invalid state")

	// ErrMalformedInput marks unparseable dates, negative chore values and
	// similar bad input. It is never coerced into a zero value.
	ErrMalformedInput = errors.New("malformed input")

	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
