package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a run produced no usable result.
type ErrorKind string

const (
	ErrorKindNoContent     ErrorKind = "no-content"
	ErrorKindReadFailure   ErrorKind = "read-failure"
	ErrorKindDecodeFailure ErrorKind = "decode-failure"
	ErrorKindEncodeFailure ErrorKind = "encode-failure"
	ErrorKindCopyFailure   ErrorKind = "copy-failure"
	ErrorKindSuperseded    ErrorKind = "superseded"
)

// Error is a stage-aware failure with its taxonomy kind.
type Error struct {
	Stage   string    `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error formats failures for logs.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s (%s)", e.Stage, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s (%s): %v", e.Stage, e.Message, e.Kind, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
