package json

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/arnodel/arraystream/internal/debug"
	"github.com/arnodel/arraystream/internal/scanner"
	"github.com/arnodel/arraystream/value"
)

// ReaderState is the state of an ArrayReader.
type ReaderState uint8

const (
	ReaderNotStarted ReaderState = iota
	ReaderInArray
	ReaderExhausted
	ReaderFailed
)

func (s ReaderState) String() string {
	switch s {
	case ReaderNotStarted:
		return "NotStarted"
	case ReaderInArray:
		return "InArray"
	case ReaderExhausted:
		return "Exhausted"
	case ReaderFailed:
		return "Failed"
	default:
		return fmt.Sprintf("ReaderState(%d)", uint8(s))
	}
}

// readerTransitions lists the legal state changes of an ArrayReader.
var readerTransitions = map[ReaderState][]ReaderState{
	ReaderNotStarted: {ReaderInArray, ReaderFailed},
	ReaderInArray:    {ReaderExhausted, ReaderFailed},
}

// An ArrayReader reads a JSON document whose top level value is an array and
// returns its elements one at a time.  Only the element being decoded is held
// in memory.
//
// The sequence of elements is single pass: once exhausted, a new reader over
// a fresh input is needed to iterate again.
type ArrayReader struct {
	dec     *Decoder
	builder value.Builder
	state   ReaderState
	count   int
}

// NewArrayReader consumes the opening '[' of the document.  If the document
// does not start with an array, the returned error matches
// ErrMalformedDocument.  Errors from the reader are returned unchanged.
func NewArrayReader(in io.Reader) (*ArrayReader, error) {
	r := &ArrayReader{dec: NewDecoder(in)}
	if err := r.start(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ArrayReader) start() error {
	scanr := r.dec.scanr
	b, err := scanr.SkipSpaceAndPeek()
	if err != nil {
		r.setState(ReaderFailed)
		return err
	}
	if b != '[' {
		r.setState(ReaderFailed)
		return fmt.Errorf("%w: %w", ErrMalformedDocument, UnexpectedByte(scanr, "expected '[', got"))
	}
	scanr.Read()
	r.setState(ReaderInArray)
	return nil
}

// Next returns the next element of the array.  When there are no more
// elements it consumes the closing ']' and returns io.EOF, and keeps doing so
// if called again.
//
// Invalid JSON is reported as a *DecodeError and errors from the reader are
// returned unchanged.  In both cases the reader cannot be used any more and
// subsequent calls fail with ErrInvalidState.
func (r *ArrayReader) Next() (value.Value, error) {
	switch r.state {
	case ReaderInArray:
	case ReaderExhausted:
		return nil, io.EOF
	default:
		return nil, invalidState("Next", r.state)
	}
	scanr := r.dec.scanr
	b, err := scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, r.fail(err)
	}
	if b == ']' {
		scanr.Read()
		r.setState(ReaderExhausted)
		return nil, io.EOF
	}
	if r.count > 0 {
		if b != ',' {
			return nil, r.fail(UnexpectedByte(scanr, "expected ']' or ',', got"))
		}
		scanr.Read()
	}
	r.builder.Reset()
	if err := r.dec.ParseValue(&r.builder); err != nil {
		return nil, r.fail(err)
	}
	r.count++
	return r.builder.Value(), nil
}

func (r *ArrayReader) fail(err error) error {
	r.setState(ReaderFailed)
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{Index: r.count, Pos: syntaxErr.Pos, Err: err}
	}
	return err
}

func (r *ArrayReader) setState(to ReaderState) {
	if !slices.Contains(readerTransitions[r.state], to) {
		panic(fmt.Sprintf("illegal reader transition from %s to %s", r.state, to))
	}
	debug.Printf("reader: %s -> %s after %d elements", r.state, to, r.count)
	r.state = to
}

// All returns an iterator over the remaining elements.  Iteration stops at
// the end of the array, or after yielding the first error.
func (r *ArrayReader) All() iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		for {
			v, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// State returns the current state of the reader.
func (r *ArrayReader) State() ReaderState {
	return r.state
}

// Count returns the number of elements returned so far.
func (r *ArrayReader) Count() int {
	return r.count
}

// Pos returns the position of the read cursor in the input.
func (r *ArrayReader) Pos() scanner.Pos {
	return r.dec.Pos()
}
