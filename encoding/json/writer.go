package json

import (
	"fmt"
	"io"
	"slices"

	"github.com/arnodel/arraystream/internal/debug"
	"github.com/arnodel/arraystream/internal/format"
	"github.com/arnodel/arraystream/token"
	"github.com/arnodel/arraystream/value"
)

// WriterState is the state of an ArrayWriter.
type WriterState uint8

const (
	WriterNotStarted WriterState = iota
	WriterInArray
	WriterFinished
	WriterFailed
)

func (s WriterState) String() string {
	switch s {
	case WriterNotStarted:
		return "NotStarted"
	case WriterInArray:
		return "InArray"
	case WriterFinished:
		return "Finished"
	case WriterFailed:
		return "Failed"
	default:
		return fmt.Sprintf("WriterState(%d)", uint8(s))
	}
}

// writerTransitions lists the legal state changes of an ArrayWriter.
var writerTransitions = map[WriterState][]WriterState{
	WriterNotStarted: {WriterInArray, WriterFailed},
	WriterInArray:    {WriterFinished, WriterFailed},
}

// Colorizer can be passed to WithColorizer.
type Colorizer = format.Colorizer

// DefaultColorizer is the color scheme used by the jmap command.
var DefaultColorizer = &format.DefaultColorizer

// A Flusher is an output that buffers data, like *bufio.Writer.
type Flusher interface {
	Flush() error
}

type writerConfig struct {
	indent    int
	colorizer *format.Colorizer
	flushEach bool
}

// A WriterOption configures an ArrayWriter.
type WriterOption func(*writerConfig)

// WithIndent puts each element and each nested item on its own line,
// indented by n spaces per level.  A negative n (the default) writes the
// whole array on one line.
func WithIndent(n int) WriterOption {
	return func(c *writerConfig) {
		c.indent = n
	}
}

// WithColorizer surrounds scalars with the color codes of c.  The output is
// then no longer plain JSON, so this is only meant for terminals.
func WithColorizer(c *Colorizer) WriterOption {
	return func(cfg *writerConfig) {
		cfg.colorizer = c
	}
}

// WithFlushEachElement flushes the output after each element if it is a
// Flusher.
func WithFlushEachElement() WriterOption {
	return func(c *writerConfig) {
		c.flushEach = true
	}
}

// An ArrayWriter writes values as the elements of a JSON array, as they are
// given to it.  It does not buffer anything: what Put has written is in the
// output when it returns.
type ArrayWriter struct {
	out       io.Writer
	enc       *Encoder
	flushEach bool
	state     WriterState
	count     int
}

// NewArrayWriter writes the opening '[' of the array to out.
func NewArrayWriter(out io.Writer, opts ...WriterOption) (*ArrayWriter, error) {
	cfg := writerConfig{indent: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	w := &ArrayWriter{
		out: out,
		enc: &Encoder{
			Printer:         &format.DefaultPrinter{Writer: out, IndentSize: cfg.indent},
			Colorizer:       cfg.colorizer,
			SpaceAfterColon: cfg.indent >= 0,
		},
		flushEach: cfg.flushEach,
	}
	if err := w.emit(func() { w.enc.Put(&token.StartArray{}) }); err != nil {
		w.setState(WriterFailed)
		return nil, err
	}
	w.setState(WriterInArray)
	return w, nil
}

// Put writes v as the next element of the array.
//
// If v contains a value that has no JSON representation (e.g. a NaN number),
// Put returns an *EncodeError without writing anything.  Errors from the
// output are returned unchanged.  After an error, the writer cannot be used
// any more.
func (w *ArrayWriter) Put(v value.Value) error {
	if w.state != WriterInArray {
		return invalidState("Put", w.state)
	}
	if err := value.Validate(v); err != nil {
		w.setState(WriterFailed)
		encErr := &EncodeError{Index: w.count, Err: err}
		if invalid, ok := err.(*value.InvalidValueError); ok {
			encErr.Path = invalid.Path
		}
		return encErr
	}
	if err := w.emit(func() { value.Emit(v, w.enc) }); err != nil {
		w.setState(WriterFailed)
		return err
	}
	w.count++
	if w.flushEach {
		if err := w.flush(); err != nil {
			w.setState(WriterFailed)
			return err
		}
	}
	return nil
}

// Finish writes the closing ']' of the array and flushes the output if it is
// a Flusher.  It fails with ErrInvalidState if the writer is not in the
// InArray state, e.g. when called a second time.
func (w *ArrayWriter) Finish() error {
	if w.state != WriterInArray {
		return invalidState("Finish", w.state)
	}
	if err := w.emit(func() { w.enc.Put(&token.EndArray{}) }); err != nil {
		w.setState(WriterFailed)
		return err
	}
	if err := w.flush(); err != nil {
		w.setState(WriterFailed)
		return err
	}
	w.setState(WriterFinished)
	return nil
}

func (w *ArrayWriter) emit(f func()) (err error) {
	defer format.CatchPrinterError(&err)
	f()
	return nil
}

func (w *ArrayWriter) flush() error {
	if f, ok := w.out.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (w *ArrayWriter) setState(to WriterState) {
	if !slices.Contains(writerTransitions[w.state], to) {
		panic(fmt.Sprintf("illegal writer transition from %s to %s", w.state, to))
	}
	debug.Printf("writer: %s -> %s after %d elements", w.state, to, w.count)
	w.state = to
}

// State returns the current state of the writer.
func (w *ArrayWriter) State() WriterState {
	return w.state
}

// Count returns the number of elements written so far.
func (w *ArrayWriter) Count() int {
	return w.count
}
