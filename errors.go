package main

import (
	"errors"
	"fmt"
)

// errorKind classifies a failure. Values are strings so they read well in logs.
type errorKind string

const (
	// kindInvalidInput: the size argument could not be used.
	kindInvalidInput errorKind = "INVALID_INPUT"
	// kindProvision: the temporary file could not be created or filled.
	kindProvision errorKind = "PROVISION_FAILED"
	// kindMetadata: the file could not be stat'ed.
	kindMetadata errorKind = "METADATA_FAILED"
	// kindPositioning: a seek or position query failed outright.
	kindPositioning errorKind = "POSITIONING_FAILED"
	// kindMismatch: two handles disagree on the current offset.
	kindMismatch errorKind = "POSITION_MISMATCH"
	// kindHandle: open, fileno, dup or fdopen failed.
	kindHandle errorKind = "HANDLE_FAILED"
	// kindClose: closing a stream failed.
	kindClose errorKind = "CLOSE_FAILED"
)

var errPositionMismatch = errors.New("position mismatch")

type checkError struct {
	Kind     errorKind
	Op       string
	Expected int64
	Actual   int64
	Err      error
}

func (e *checkError) Error() string {
	if e.Kind == kindMismatch {
		return fmt.Sprintf("%s: %v: got %d, want %d", e.Op, errPositionMismatch, e.Actual, e.Expected)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *checkError) Unwrap() error {
	if e.Kind == kindMismatch {
		return errPositionMismatch
	}
	return e.Err
}

func failure(kind errorKind, op string, err error) *checkError {
	return &checkError{Kind: kind, Op: op, Err: err}
}

func mismatch(op string, want, got int64) *checkError {
	return &checkError{Kind: kindMismatch, Op: op, Expected: want, Actual: got}
}

// kindOf returns the kind of the first checkError in err's chain, or "".
func kindOf(err error) errorKind {
	var ce *checkError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
