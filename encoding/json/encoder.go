package json

import (
	"fmt"

	"github.com/arnodel/arraystream/internal/format"
	"github.com/arnodel/arraystream/token"
)

// An Encoder writes tokens as JSON text, using the given Printer instance for
// formatting.  It inserts separators as required by the structure of the
// token stream, which it assumes to be well-formed.
//
// Write errors are reported by the Printer panicking with a
// *format.PrinterError (see format.CatchPrinterError).
type Encoder struct {
	format.Printer
	*format.Colorizer

	// Output ": " between keys and values instead of ":"
	SpaceAfterColon bool

	stack    []encoderFrame
	afterKey bool
}

type encoderFrame struct {
	closeBytes []byte
	count      int
}

var _ token.WriteStream = &Encoder{}

// Put implements token.WriteStream.
func (e *Encoder) Put(tok token.Token) {
	switch t := tok.(type) {
	case *token.StartArray:
		e.beginValue()
		e.PrintBytes(openArrayBytes)
		e.stack = append(e.stack, encoderFrame{closeBytes: closeArrayBytes})
	case *token.StartObject:
		e.beginValue()
		e.PrintBytes(openObjectBytes)
		e.stack = append(e.stack, encoderFrame{closeBytes: closeObjectBytes})
	case *token.EndArray, *token.EndObject:
		n := len(e.stack)
		if n == 0 {
			panic(fmt.Sprintf("unexpected %s", tok))
		}
		top := e.stack[n-1]
		e.stack = e.stack[:n-1]
		if top.count > 0 {
			e.Dedent()
		}
		e.PrintBytes(top.closeBytes)
	case *token.Scalar:
		if t.IsKey() {
			e.beginItem()
			e.Colorizer.PrintScalar(e.Printer, t)
			if e.SpaceAfterColon {
				e.PrintBytes(spacedKeyValueSeparatorBytes)
			} else {
				e.PrintBytes(keyValueSeparatorBytes)
			}
			e.afterKey = true
			return
		}
		e.beginValue()
		e.Colorizer.PrintScalar(e.Printer, t)
	default:
		panic(fmt.Sprintf("invalid token: %#v", tok))
	}
}

func (e *Encoder) beginValue() {
	if e.afterKey {
		e.afterKey = false
		return
	}
	e.beginItem()
}

func (e *Encoder) beginItem() {
	n := len(e.stack)
	if n == 0 {
		return
	}
	top := &e.stack[n-1]
	if top.count > 0 {
		e.PrintBytes(itemSeparatorBytes)
		e.NewLine()
	} else {
		e.Indent()
	}
	top.count++
}

var (
	openObjectBytes              = []byte("{")
	closeObjectBytes             = []byte("}")
	openArrayBytes               = []byte("[")
	closeArrayBytes              = []byte("]")
	itemSeparatorBytes           = []byte(",")
	keyValueSeparatorBytes       = []byte(":")
	spacedKeyValueSeparatorBytes = []byte(": ")
)
