package json

import (
	"errors"
	"fmt"

	"github.com/arnodel/arraystream/internal/scanner"
)

var (
	// ErrMalformedDocument is returned when the input does not start with an
	// array.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidState is returned when a reader or writer method is called in
	// a state that does not allow it.
	ErrInvalidState = errors.New("invalid state")
)

// A SyntaxError reports input that is not valid JSON.
type SyntaxError struct {
	Pos scanner.Pos
	Msg string
}

func newSyntaxError(pos scanner.Pos, b byte, expected string, args ...any) *SyntaxError {
	msg := fmt.Sprintf(expected, args...)
	if b == scanner.EOF {
		msg += ": <EOF>"
	} else {
		msg += fmt.Sprintf(": %q", b)
	}
	return &SyntaxError{Pos: pos, Msg: msg}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

// A DecodeError reports an array element that could not be decoded.
type DecodeError struct {
	Index int         // index of the element in the array
	Pos   scanner.Pos // where decoding failed
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode element %d: %s", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// An EncodeError reports an element that cannot be written as JSON.  Nothing
// from the element has been written when it is returned.
type EncodeError struct {
	Index int    // index the element would have had in the array
	Path  string // location of the offending value inside the element
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode element %d: %s", e.Index, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func invalidState(op string, state fmt.Stringer) error {
	return fmt.Errorf("%w: %s called in state %s", ErrInvalidState, op, state)
}
