package arraystream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/arnodel/arraystream/encoding/json"
	"github.com/arnodel/arraystream/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transformString(t *testing.T, input string, f TransformFunc, opts ...json.WriterOption) (string, int, error) {
	t.Helper()
	var sb strings.Builder
	n, err := Transform(context.Background(), strings.NewReader(input), &sb, f, opts...)
	return sb.String(), n, err
}

// countCalls wraps f and counts how many times it is called.
func countCalls(f TransformFunc, n *int) TransformFunc {
	return func(v value.Value) (value.Value, error) {
		*n++
		return f(v)
	}
}

func TestTransformIdentity(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		count    int
	}{
		{`[]`, `[]`, 0},
		{` [ ] `, `[]`, 0},
		{`[1, "a", null]`, `[1,"a",null]`, 3},
		{"[\n  {\"id\": 1, \"n\": 1.50},\n  [true, {}]\n]\n", `[{"id":1,"n":1.50},[true,{}]]`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var calls int
			out, n, err := transformString(t, tt.input, countCalls(Identity, &calls))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.count, n)
			assert.Equal(t, tt.count, calls)

			out, _, err = transformString(t, tt.input, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTransformMap(t *testing.T) {
	double := Map(func(v value.Value) value.Value {
		n, _ := v.(value.Number).Int64()
		return value.Int(2 * n)
	})
	out, n, err := transformString(t, `[1, 2, 3]`, double, json.WithIndent(1))
	require.NoError(t, err)
	assert.Equal(t, "[\n 2,\n 4,\n 6\n]", out)
	assert.Equal(t, 3, n)
}

func TestTransformFailureLeavesOutputUnfinished(t *testing.T) {
	errBad := errors.New("bad element")
	f := func(v value.Value) (value.Value, error) {
		if n, _ := v.(value.Number).Int64(); n == 3 {
			return nil, errBad
		}
		return v, nil
	}
	out, n, err := transformString(t, `[1, 2, 3, 4, 5]`, f)
	assert.Equal(t, "[1,2", out)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, errBad)
	var transformErr *TransformError
	require.ErrorAs(t, err, &transformErr)
	assert.Equal(t, 2, transformErr.Index)
	assert.EqualError(t, err, "cannot transform element 2: bad element")
}

func TestTransformMalformedDocument(t *testing.T) {
	var calls int
	out, n, err := transformString(t, `{"a": [1, 2]}`, countCalls(Identity, &calls))
	assert.ErrorIs(t, err, json.ErrMalformedDocument)
	assert.Empty(t, out)
	assert.Zero(t, n)
	assert.Zero(t, calls)
}

func TestTransformDecodeError(t *testing.T) {
	out, n, err := transformString(t, `[1, 2, {"a" 3}, 4]`, nil)
	assert.Equal(t, "[1,2", out)
	assert.Equal(t, 2, n)
	var decodeErr *json.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Index)
}

func TestTransformEncodeError(t *testing.T) {
	f := Map(func(v value.Value) value.Value {
		return value.NewObject(value.Member{Key: "x", Value: value.Float(1)}, value.Member{Key: "bad", Value: value.Float(math.Inf(1))})
	})
	out, _, err := transformString(t, `[1]`, f)
	assert.Equal(t, "[", out)
	var encodeErr *json.EncodeError
	require.ErrorAs(t, err, &encodeErr)
	assert.Equal(t, "$.bad", encodeErr.Path)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, err := json.NewArrayReader(strings.NewReader(`[1, 2, 3]`))
	require.NoError(t, err)
	var sb strings.Builder
	w, err := json.NewArrayWriter(&sb)
	require.NoError(t, err)

	f := Map(func(v value.Value) value.Value {
		cancel()
		return v
	})
	n, err := Run(ctx, r, w, f)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[1", sb.String())
	assert.Equal(t, json.WriterInArray, w.State())
}

func TestRunWriteError(t *testing.T) {
	errFull := errors.New("disk full")
	r, err := json.NewArrayReader(strings.NewReader(`[1, 2]`))
	require.NoError(t, err)
	w, err := json.NewArrayWriter(&limitedWriter{limit: 2, err: errFull})
	require.NoError(t, err)
	n, err := Run(context.Background(), r, w, nil)
	assert.Same(t, errFull, err)
	assert.Equal(t, 1, n)
}

func TestRunReadError(t *testing.T) {
	errClosed := errors.New("connection closed")
	in := io.MultiReader(strings.NewReader(`[1, 2`), &errReader{err: errClosed})
	var sb strings.Builder
	n, err := Transform(context.Background(), in, &sb, nil)
	assert.Same(t, errClosed, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "[1", sb.String())
}

func TestChain(t *testing.T) {
	add := func(k int64) TransformFunc {
		return Map(func(v value.Value) value.Value {
			n, _ := v.(value.Number).Int64()
			return value.Int(n + k)
		})
	}
	errStop := errors.New("stop")
	stop := func(value.Value) (value.Value, error) { return nil, errStop }

	v, err := Chain(add(1), nil, add(10))(value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, value.Int(12), v)

	_, err = Chain(add(1), stop, add(10))(value.Int(1))
	assert.Same(t, errStop, err)

	v, err = Chain()(value.String("x"))
	require.NoError(t, err)
	assert.Equal(t, value.String("x"), v)
}

type lexiconDoc struct {
	ID      int            `json:"_id"`
	Source  map[string]any `json:"_source"`
	Deleted bool           `json:"deleted,omitempty"`
}

func TestTyped(t *testing.T) {
	f := Typed(func(d lexiconDoc) (lexiconDoc, error) {
		if d.Source == nil {
			return d, errors.New("no source")
		}
		d.Source["lexiconName"] = "Core"
		return d, nil
	})
	out, n, err := transformString(t, `[{"_id": 1, "_source": {"word": "a<b"}}]`, f)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `[{"_id":1,"_source":{"lexiconName":"Core","word":"a<b"}}]`, out)

	_, _, err = transformString(t, `[{"_id": 2}]`, f)
	assert.EqualError(t, err, "cannot transform element 0: no source")

	_, _, err = transformString(t, `[{"_id": "x"}]`, f)
	assert.ErrorContains(t, err, "cannot decode arraystream.lexiconDoc")
}

func TestLogTransform(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	errOdd := errors.New("odd")
	f := LogTransform(logger, func(v value.Value) (value.Value, error) {
		if n, _ := v.(value.Number).Int64(); n%2 == 1 {
			return nil, errOdd
		}
		return v, nil
	})
	_, _, err := transformString(t, `[0, 2, 3]`, f)
	assert.ErrorIs(t, err, errOdd)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"level":"DEBUG","msg":"transformed","index":0,"kind":"number"`)
	assert.Contains(t, lines[1], `"index":1`)
	assert.Contains(t, lines[2], `"level":"ERROR","msg":"transform failed","index":2,"kind":"number","err":"odd"`)
}

type limitedWriter struct {
	bytes.Buffer
	limit int
	err   error
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.Len()+len(p) > w.limit {
		return 0, w.err
	}
	return w.Buffer.Write(p)
}

type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) {
	return 0, r.err
}
