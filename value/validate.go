package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arnodel/arraystream/internal/scanner"
)

// An InvalidValueError reports a value that cannot be written as JSON.
type InvalidValueError struct {
	Path  string
	Value Value
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s at %s: %s", e.Value.Kind(), e.Path, describe(e.Value))
}

func (e *InvalidValueError) Unwrap() error {
	switch e.Value.Kind() {
	case NumberKind:
		return ErrInvalidNumber
	case StringKind:
		return ErrInvalidString
	}
	return nil
}

// ErrInvalidString is matched by errors about strings (or keys) that are not
// valid UTF-8.
var ErrInvalidString = errors.New("invalid string")

func describe(v Value) string {
	switch x := v.(type) {
	case Number:
		return strconv.Quote(x.String())
	case String:
		return strconv.Quote(string(x))
	}
	return fmt.Sprintf("%#v", v)
}

// Validate checks that v can be written as JSON, i.e. that all its numbers
// are valid and all its strings and keys are valid UTF-8.  It returns an
// *InvalidValueError locating the first offending value.  An invalid key is
// reported as a String at the path of its member.
func Validate(v Value) error {
	return validate(orNull(v), "$")
}

func validate(v Value, path string) error {
	switch x := v.(type) {
	case Number:
		if !x.Valid() {
			return &InvalidValueError{Path: path, Value: x}
		}
	case String:
		if !utf8.ValidString(string(x)) {
			return &InvalidValueError{Path: path, Value: x}
		}
	case *Array:
		for i, item := range x.items {
			if err := validate(item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case *Object:
		for _, m := range x.members {
			memberPath := path + pathKey(m.Key)
			if !utf8.ValidString(m.Key) {
				return &InvalidValueError{Path: memberPath, Value: String(m.Key)}
			}
			if err := validate(m.Value, memberPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func pathKey(key string) string {
	if key != "" && scanner.IsAlpha(key[0]) && strings.IndexFunc(key, func(r rune) bool { return !scanner.IsAlnum(r) }) < 0 {
		return "." + key
	}
	return "[" + strconv.Quote(key) + "]"
}
