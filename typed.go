package arraystream

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/arnodel/arraystream/encoding/json"
	"github.com/arnodel/arraystream/value"
)

// Typed lets f work on elements decoded into a Go type.  Each element is
// unmarshaled into a T, passed to f, and the result is marshaled back.  The
// usual encoding/json struct tags apply.
//
// Fields of T that are not in the element are left at their zero value and
// fields of the element that are not in T are dropped, so T should describe
// the whole element.
func Typed[T any](f func(T) (T, error)) TransformFunc {
	return func(v value.Value) (value.Value, error) {
		in, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var x T
		if err := gojson.Unmarshal(in, &x); err != nil {
			return nil, fmt.Errorf("cannot decode %T: %w", x, err)
		}
		x, err = f(x)
		if err != nil {
			return nil, err
		}
		out, err := gojson.MarshalNoEscape(x)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %T: %w", x, err)
		}
		return json.Unmarshal(out)
	}
}
