// Package value implements an in-memory representation of a single JSON
// value.
//
// A Value is one of Null, Bool, Number, String, *Array or *Object.  Arrays and
// objects own their children: there are no back references, so a Value is
// always a tree.  Objects keep their members in insertion order and their keys
// are unique.
package value

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "boolean"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// A Value is a JSON value.  The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null value.
type Null struct{}

func (Null) Kind() Kind { return NullKind }
func (Null) isValue()   {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) Kind() Kind { return BoolKind }
func (Bool) isValue()   {}

// String is a JSON string.
type String string

func (String) Kind() Kind { return StringKind }
func (String) isValue()   {}

// Array is a JSON array.  The zero value is an empty array.
type Array struct {
	items []Value
}

// NewArray returns an array containing items.  Nil items are stored as Null.
func NewArray(items ...Value) *Array {
	a := &Array{items: make([]Value, 0, len(items))}
	for _, item := range items {
		a.Append(item)
	}
	return a
}

func (*Array) Kind() Kind { return ArrayKind }
func (*Array) isValue()   {}

func (a *Array) Len() int {
	return len(a.items)
}

// At returns the i-th item.  It panics if i is out of range.
func (a *Array) At(i int) Value {
	return a.items[i]
}

// SetAt replaces the i-th item.  It panics if i is out of range.
func (a *Array) SetAt(i int, v Value) {
	a.items[i] = orNull(v)
}

func (a *Array) Append(v Value) {
	a.items = append(a.items, orNull(v))
}

// All iterates over the items in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Member is a key-value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object.  Members are kept in insertion order and keys are
// unique.  The zero value is an empty object.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an object with the given members.  If a key appears more
// than once, the last value wins and keeps the position of the first
// occurrence.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

func (*Object) Kind() Kind { return ObjectKind }
func (*Object) isValue()   {}

func (o *Object) Len() int {
	return len(o.members)
}

// Get returns the value associated with key, if any.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Set associates v with key.  An existing key keeps its position, a new key is
// added at the end.
func (o *Object) Set(key string, v Value) {
	v = orNull(v)
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.members = slices.Delete(o.members, i, i+1)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
	return true
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// All iterates over the members in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, m := range o.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy of v.  Scalars are returned as they are.
func Clone(v Value) Value {
	switch x := orNull(v).(type) {
	case *Array:
		c := &Array{items: make([]Value, len(x.items))}
		for i, item := range x.items {
			c.items[i] = Clone(item)
		}
		return c
	case *Object:
		c := &Object{members: make([]Member, len(x.members)), index: maps.Clone(x.index)}
		for i, m := range x.members {
			c.members[i] = Member{Key: m.Key, Value: Clone(m.Value)}
		}
		return c
	default:
		return x
	}
}

// KindOf returns the kind of v, treating nil as null.
func KindOf(v Value) Kind {
	return orNull(v).Kind()
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

// Equal reports whether a and b are the same JSON value.  Object members are
// compared regardless of their order, numbers by their literal.
func Equal(a, b Value) bool {
	a, b = orNull(a), orNull(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool, String:
		return a == b
	case Number:
		return x.String() == b.(Number).String()
	case *Array:
		y := b.(*Array)
		return slices.EqualFunc(x.items, y.items, Equal)
	case *Object:
		y := b.(*Object)
		if x.Len() != y.Len() {
			return false
		}
		for k, v := range x.All() {
			w, ok := y.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("invalid value %#v", a))
	}
}
