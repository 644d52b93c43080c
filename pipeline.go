package arraystream

import (
	"context"
	"io"

	"github.com/arnodel/arraystream/encoding/json"
	"github.com/arnodel/arraystream/value"
)

// A TransformFunc turns one element of the input array into one element of
// the output array.  It owns v and may modify it in place.  A nil
// TransformFunc leaves elements unchanged.
type TransformFunc func(v value.Value) (value.Value, error)

// Identity returns its argument.
func Identity(v value.Value) (value.Value, error) {
	return v, nil
}

// Map makes a TransformFunc out of a function that cannot fail.
func Map(f func(value.Value) value.Value) TransformFunc {
	return func(v value.Value) (value.Value, error) {
		return f(v), nil
	}
}

// Chain applies each of fs in turn.  Nil functions are skipped.
func Chain(fs ...TransformFunc) TransformFunc {
	return func(v value.Value) (value.Value, error) {
		var err error
		for _, f := range fs {
			if f == nil {
				continue
			}
			v, err = f(v)
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// Run copies the elements of r to w through f, one element at a time, then
// finishes w.  It returns the number of elements written to w.
//
// Run stops at the first error, leaving w unfinished so that the output is
// not a valid JSON array.  Errors returned by f are wrapped in a
// *TransformError, other errors are returned as they are.  ctx is checked
// before reading each element.
func Run(ctx context.Context, r *json.ArrayReader, w *json.ArrayWriter, f TransformFunc) (int, error) {
	if f == nil {
		f = Identity
	}
	for {
		if err := ctx.Err(); err != nil {
			return w.Count(), err
		}
		v, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return w.Count(), err
		}
		v, err = f(v)
		if err != nil {
			return w.Count(), &TransformError{Index: r.Count() - 1, Err: err}
		}
		if err := w.Put(v); err != nil {
			return w.Count(), err
		}
	}
	return w.Count(), w.Finish()
}

// Transform reads a JSON array from in and writes it to out, with f applied to
// each element.  Nothing is written if in does not start with an array.  See
// Run for how errors are handled.
func Transform(ctx context.Context, in io.Reader, out io.Writer, f TransformFunc, opts ...json.WriterOption) (int, error) {
	r, err := json.NewArrayReader(in)
	if err != nil {
		return 0, err
	}
	w, err := json.NewArrayWriter(out, opts...)
	if err != nil {
		return 0, err
	}
	return Run(ctx, r, w, f)
}
