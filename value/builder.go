package value

import (
	"fmt"

	"github.com/arnodel/arraystream/token"
)

// Builder assembles exactly one Value from the tokens put into it.  It
// assumes the token stream is well formed and panics otherwise.
type Builder struct {
	stack  []builderFrame
	result Value
	done   bool
}

type builderFrame struct {
	arr *Array
	obj *Object
	key string
}

var _ token.WriteStream = &Builder{}

// Put implements token.WriteStream.
func (b *Builder) Put(tok token.Token) {
	if b.done {
		panic("value already built")
	}
	switch t := tok.(type) {
	case *token.StartArray:
		b.stack = append(b.stack, builderFrame{arr: &Array{}})
	case *token.StartObject:
		b.stack = append(b.stack, builderFrame{obj: &Object{}})
	case *token.EndArray:
		top := b.pop()
		if top.arr == nil {
			panic("unexpected EndArray")
		}
		b.add(top.arr)
	case *token.EndObject:
		top := b.pop()
		if top.obj == nil {
			panic("unexpected EndObject")
		}
		b.add(top.obj)
	case *token.Scalar:
		if t.IsKey() {
			n := len(b.stack)
			if n == 0 || b.stack[n-1].obj == nil {
				panic("unexpected key")
			}
			b.stack[n-1].key = t.ToString()
			return
		}
		b.add(ScalarValue(t))
	default:
		panic(fmt.Sprintf("invalid token %#v", tok))
	}
}

func (b *Builder) pop() builderFrame {
	n := len(b.stack)
	if n == 0 {
		panic("unbalanced token stream")
	}
	top := b.stack[n-1]
	b.stack[n-1] = builderFrame{}
	b.stack = b.stack[:n-1]
	return top
}

func (b *Builder) add(v Value) {
	n := len(b.stack)
	if n == 0 {
		b.result = v
		b.done = true
		return
	}
	top := &b.stack[n-1]
	if top.arr != nil {
		top.arr.Append(v)
	} else {
		top.obj.Set(top.key, v)
	}
}

// Done reports whether a complete value has been built.
func (b *Builder) Done() bool {
	return b.done
}

// Value returns the value that was built, or nil if it is not complete yet.
func (b *Builder) Value() Value {
	return b.result
}

// Reset prepares the builder for a new value.
func (b *Builder) Reset() {
	b.stack = b.stack[:0]
	b.result = nil
	b.done = false
}

// ScalarValue converts a scalar token to a Value.
func ScalarValue(s *token.Scalar) Value {
	switch s.Type() {
	case token.Null:
		return Null{}
	case token.Boolean:
		return Bool(s.Bytes[0] == 't')
	case token.Number:
		return Number{lit: string(s.Bytes)}
	default:
		return String(s.ToString())
	}
}
