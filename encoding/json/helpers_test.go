package json

import (
	"errors"
	"strings"
	"testing"

	"github.com/arnodel/arraystream/token"
	"github.com/arnodel/arraystream/value"
	"github.com/stretchr/testify/require"
)

// tokenStrings renders tokens so they can be compared easily.  Keys are
// prefixed with "Key".
func tokenStrings(toks []token.Token) []string {
	strs := make([]string, len(toks))
	for i, tok := range toks {
		strs[i] = tok.String()
		if s, ok := tok.(*token.Scalar); ok && s.IsKey() {
			strs[i] = "Key" + strs[i]
		}
	}
	return strs
}

// tokenList is a token.WriteStream that keeps the tokens put into it.
type tokenList []token.Token

func (l *tokenList) Put(tok token.Token) {
	*l = append(*l, tok)
}

// decodeOne decodes the first value of input into tokens.
func decodeOne(t *testing.T, input string) ([]token.Token, error) {
	t.Helper()
	var toks tokenList
	err := NewDecoder(strings.NewReader(input)).ParseValue(&toks)
	return toks, err
}

// readAll reads all the elements of the array in input.
func readAll(t *testing.T, input string) []value.Value {
	t.Helper()
	r, err := NewArrayReader(strings.NewReader(input))
	require.NoError(t, err)
	var values []value.Value
	for v, err := range r.All() {
		require.NoError(t, err)
		values = append(values, v)
	}
	require.Equal(t, ReaderExhausted, r.State())
	return values
}

// writeAll writes values as an array and returns the output.
func writeAll(t *testing.T, values []value.Value, opts ...WriterOption) string {
	t.Helper()
	var sb strings.Builder
	w, err := NewArrayWriter(&sb, opts...)
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, w.Put(v))
	}
	require.NoError(t, w.Finish())
	return sb.String()
}

// failingWriter accepts limit bytes then fails.
type failingWriter struct {
	strings.Builder
	limit int
	err   error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.Len()+len(p) > w.limit {
		return 0, w.err
	}
	return w.Builder.Write(p)
}

// failingReader returns data then err.
type failingReader struct {
	data string
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

var errBoom = errors.New("boom")
