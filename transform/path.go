package transform

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/arnodel/arraystream/value"
)

// A Path locates a member in nested objects.  It is written as keys separated
// by dots, e.g. "_source.lexiconName".  A dot or a backslash that is part of a
// key is escaped with a backslash.
type Path []string

var ErrEmptyKey = errors.New("empty key in path")

// ParsePath parses a dotted path.
func ParsePath(s string) (Path, error) {
	var (
		path Path
		key  strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			i++
			if i == len(s) {
				return nil, fmt.Errorf("invalid path %q: trailing backslash", s)
			}
			key.WriteByte(s[i])
		case '.':
			if key.Len() == 0 {
				return nil, fmt.Errorf("invalid path %q: %w", s, ErrEmptyKey)
			}
			path = append(path, key.String())
			key.Reset()
		default:
			key.WriteByte(c)
		}
	}
	if key.Len() == 0 {
		return nil, fmt.Errorf("invalid path %q: %w", s, ErrEmptyKey)
	}
	return append(path, key.String()), nil
}

// MustParsePath is like ParsePath but panics if s is not a valid path.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	keys := make([]string, len(p))
	for i, k := range p {
		keys[i] = keyEscaper.Replace(k)
	}
	return strings.Join(keys, ".")
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`)

// UnmarshalText allows paths to be used in flags and rule files.
func (p *Path) UnmarshalText(text []byte) error {
	path, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = path
	return nil
}

// parent walks v down to the object holding the last key of the path.  If
// create is true, missing objects along the way are added.  It returns nil if
// a member is missing and create is false.
func (p Path) parent(v value.Value, create bool) (*value.Object, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, &NotAnObjectError{Kind: value.KindOf(v)}
	}
	for i, key := range p[:len(p)-1] {
		child, found := obj.Get(key)
		if !found {
			if !create {
				return nil, nil
			}
			child = value.NewObject()
			obj.Set(key, child)
		}
		obj, ok = child.(*value.Object)
		if !ok {
			return nil, &NotAnObjectError{Path: p[:i+1], Kind: value.KindOf(child)}
		}
	}
	return obj, nil
}

func (p Path) hasPrefix(q Path) bool {
	return len(p) >= len(q) && slices.Equal(p[:len(q)], q)
}

func (p Path) last() string {
	return p[len(p)-1]
}

// Get returns the value at p in v.
func (p Path) Get(v value.Value) (value.Value, bool) {
	for _, key := range p {
		obj, ok := v.(*value.Object)
		if !ok {
			return nil, false
		}
		v, ok = obj.Get(key)
		if !ok {
			return nil, false
		}
	}
	return v, true
}
