package json

import (
	"bytes"

	"github.com/arnodel/arraystream/internal/format"
	"github.com/arnodel/arraystream/internal/scanner"
	"github.com/arnodel/arraystream/value"
)

// Marshal returns the compact JSON encoding of v.  It returns a
// *value.InvalidValueError if v contains a number that is not valid JSON.
func Marshal(v value.Value) (data []byte, err error) {
	if err := value.Validate(v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	defer format.CatchPrinterError(&err)
	value.Emit(v, &Encoder{Printer: &format.DefaultPrinter{Writer: &buf, IndentSize: -1}})
	return buf.Bytes(), nil
}

// Unmarshal parses data, which must contain exactly one JSON value.
func Unmarshal(data []byte) (value.Value, error) {
	dec := NewDecoder(bytes.NewReader(data))
	var b value.Builder
	if err := dec.ParseValue(&b); err != nil {
		return nil, err
	}
	if _, err := dec.scanr.SkipSpaceAndPeek(); err != nil {
		return nil, err
	}
	pos := dec.scanr.CurrentPos()
	next, err := dec.scanr.Read()
	if err != nil {
		return nil, err
	}
	if next != scanner.EOF || !dec.scanr.AtEOF() {
		return nil, newSyntaxError(pos, next, "unexpected data after value")
	}
	return b.Value(), nil
}
