package json

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/arnodel/arraystream/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayReaderElements(t *testing.T) {
	r, err := NewArrayReader(strings.NewReader(`  [1, "two", {"three": [3]}, null, true]`))
	require.NoError(t, err)
	assert.Equal(t, ReaderInArray, r.State())

	expected := []value.Value{
		value.Int(1),
		value.String("two"),
		value.NewObject(value.Member{Key: "three", Value: value.NewArray(value.Int(3))}),
		value.Null{},
		value.Bool(true),
	}
	for i, x := range expected {
		v, err := r.Next()
		require.NoError(t, err)
		assert.True(t, value.Equal(x, v), "element %d: %#v", i, v)
		assert.Equal(t, i+1, r.Count())
	}
	for range 3 {
		v, err := r.Next()
		assert.Nil(t, v)
		assert.Equal(t, io.EOF, err)
		assert.Equal(t, ReaderExhausted, r.State())
	}
	assert.Equal(t, 5, r.Count())
}

func TestArrayReaderEmpty(t *testing.T) {
	for _, input := range []string{"[]", " \n\t[ \r\n ]", "[]\n"} {
		assert.Empty(t, readAll(t, input), "input %q", input)
	}
}

func TestArrayReaderIgnoresTrailingBytes(t *testing.T) {
	values := readAll(t, `[1] this is not looked at`)
	require.Len(t, values, 1)
}

func TestArrayReaderPreservesNumbers(t *testing.T) {
	values := readAll(t, `[1.50, -0, 1e400, 123456789012345678901234567890]`)
	var lits []string
	for _, v := range values {
		lits = append(lits, v.(value.Number).String())
	}
	assert.Equal(t, []string{"1.50", "-0", "1e400", "123456789012345678901234567890"}, lits)
}

func TestArrayReaderDuplicateKeys(t *testing.T) {
	values := readAll(t, `[{"a": 1, "b": 2, "a": 3}]`)
	require.Len(t, values, 1)
	obj := values[0].(*value.Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, value.Int(3), a)
}

func TestArrayReaderMalformedDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"empty", "", "malformed document: syntax error at L1,C1: expected '[', got: <EOF>"},
		{"blank", "  \n ", "malformed document: syntax error at L2,C2: expected '[', got: <EOF>"},
		{"object", `{"a": [1]}`, "malformed document: syntax error at L1,C1: expected '[', got: '{'"},
		{"string", `"[1]"`, `malformed document: syntax error at L1,C1: expected '[', got: '"'`},
		{"number", ` 12`, "malformed document: syntax error at L1,C2: expected '[', got: '1'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewArrayReader(strings.NewReader(tt.input))
			assert.Nil(t, r)
			assert.ErrorIs(t, err, ErrMalformedDocument)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
			assert.EqualError(t, err, tt.err)
		})
	}
}

func TestArrayReaderDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		good  int
		err   string
	}{
		{"bad element", `[1, 2, x]`, 2, "cannot decode element 2: syntax error at L1,C8: expected value, got: 'x'"},
		{"truncated", `[1, 2`, 2, "cannot decode element 2: syntax error at L1,C6: expected ']' or ',', got: <EOF>"},
		{"truncated element", `[{"a": [1, 2`, 0, "cannot decode element 0: syntax error at L1,C13: expected ']' or ',', got: <EOF>"},
		{"trailing comma", `[1,]`, 1, "cannot decode element 1: syntax error at L1,C4: expected value, got: ']'"},
		{"missing comma", "[true\nfalse]", 1, "cannot decode element 1: syntax error at L2,C1: expected ']' or ',', got: 'f'"},
		{"leading comma", `[,1]`, 0, "cannot decode element 0: syntax error at L1,C2: expected value, got: ','"},
		{"truncated utf-8", "[\"\xc3(\"]", 0, `cannot decode element 0: syntax error at L1,C3: invalid UTF-8 in string: "\xc3("`},
		{"lone continuation byte", "[1, \"a\x80b\"]", 1, `cannot decode element 1: syntax error at L1,C7: invalid UTF-8 in string: "\x80"`},
		{"0xff in string", "[\"a\xffb\"]", 0, `cannot decode element 0: syntax error at L1,C4: invalid UTF-8 in string: "\xff"`},
		{"0xff in key", "[{\"k\xff\": 1}]", 0, `cannot decode element 0: syntax error at L1,C5: invalid UTF-8 in string: "\xff"`},
		{"surrogate", "[\"\xed\xa0\x80\"]", 0, `cannot decode element 0: syntax error at L1,C3: invalid UTF-8 in string: "\xed\xa0"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewArrayReader(strings.NewReader(tt.input))
			require.NoError(t, err)
			for range tt.good {
				_, err := r.Next()
				require.NoError(t, err)
			}
			v, err := r.Next()
			assert.Nil(t, v)
			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tt.good, decodeErr.Index)
			assert.EqualError(t, err, tt.err)
			assert.Equal(t, ReaderFailed, r.State())

			// The reader cannot be used any more.
			_, err = r.Next()
			assert.ErrorIs(t, err, ErrInvalidState)
			assert.EqualError(t, err, "invalid state: Next called in state Failed")
		})
	}
}

func TestArrayReaderIOError(t *testing.T) {
	r, err := NewArrayReader(&failingReader{data: `[{"id": 1}, {"id": 2`, err: errBoom})
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	assert.Same(t, errBoom, err)
	var decodeErr *DecodeError
	assert.False(t, errors.As(err, &decodeErr))
	assert.Equal(t, ReaderFailed, r.State())

	_, err = r.Next()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestArrayReaderIOErrorAtStart(t *testing.T) {
	r, err := NewArrayReader(iotest.ErrReader(errBoom))
	assert.Nil(t, r)
	assert.Same(t, errBoom, err)
}

func TestArrayReaderMultibyteStrings(t *testing.T) {
	vals := readAll(t, "[\"h\u00e9\u20ac\U0001F600\", {\"\u00fc\": \"\ufffd\"}]")
	require.Len(t, vals, 2)
	assert.Equal(t, value.String("h\u00e9\u20ac\U0001F600"), vals[0])
	v, ok := vals[1].(*value.Object).Get("\u00fc")
	assert.True(t, ok)
	assert.Equal(t, value.String("\ufffd"), v)
}

func TestArrayReaderSmallReads(t *testing.T) {
	input := `[{"name": "ünïcode", "n": [1, 2.5, -3e2]}, "x", [[], {}]]`
	r, err := NewArrayReader(iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	var n int
	for v, err := range r.All() {
		require.NoError(t, err)
		require.NotNil(t, v)
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, int64(len(input)), r.Pos().Offset)
}

func TestArrayReaderAll(t *testing.T) {
	t.Run("stops at the end", func(t *testing.T) {
		assert.Len(t, readAll(t, `[1, 2, 3]`), 3)
	})
	t.Run("yields a single error", func(t *testing.T) {
		r, err := NewArrayReader(strings.NewReader(`[1, ?, 3]`))
		require.NoError(t, err)
		var errs []error
		var n int
		for v, err := range r.All() {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			assert.NotNil(t, v)
			n++
		}
		assert.Equal(t, 1, n)
		require.Len(t, errs, 1)
		var decodeErr *DecodeError
		assert.ErrorAs(t, errs[0], &decodeErr)
	})
	t.Run("break", func(t *testing.T) {
		r, err := NewArrayReader(strings.NewReader(`[1, 2, 3]`))
		require.NoError(t, err)
		for range r.All() {
			break
		}
		v, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, value.Int(2), v)
	})
}

func TestArrayReaderPos(t *testing.T) {
	r, err := NewArrayReader(strings.NewReader("[\n  1,\n  22\n]"))
	require.NoError(t, err)
	assert.Equal(t, "L1,C2", r.Pos().String())
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "L2,C4", r.Pos().String())
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "L3,C5", r.Pos().String())
}

func TestArrayReaderLargeArray(t *testing.T) {
	const n = 20000
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range n {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`{"index":`)
		sb.WriteString(value.Int(int64(i)).String())
		sb.WriteString(`,"payload":"abcdefghijklmnopqrstuvwxyz"}`)
	}
	sb.WriteByte(']')

	r, err := NewArrayReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	var i int64
	for v, err := range r.All() {
		require.NoError(t, err)
		idx, ok := v.(*value.Object).Get("index")
		require.True(t, ok)
		got, err := idx.(value.Number).Int64()
		require.NoError(t, err)
		require.Equal(t, i, got)
		i++
	}
	assert.Equal(t, int64(n), i)
}
