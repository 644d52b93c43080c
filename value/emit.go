package value

import (
	"fmt"

	"github.com/arnodel/arraystream/token"
)

// Emit puts the tokens encoding v into out.  Object members are emitted in
// order.
func Emit(v Value, out token.WriteStream) {
	switch x := orNull(v).(type) {
	case Null:
		out.Put(token.NullScalar)
	case Bool:
		out.Put(token.BoolScalar(bool(x)))
	case Number:
		out.Put(token.NumberScalar(x.String()))
	case String:
		out.Put(token.StringScalar(string(x)))
	case *Array:
		out.Put(&token.StartArray{})
		for _, item := range x.items {
			Emit(item, out)
		}
		out.Put(&token.EndArray{})
	case *Object:
		out.Put(&token.StartObject{})
		for _, m := range x.members {
			out.Put(token.KeyScalar(m.Key))
			Emit(m.Value, out)
		}
		out.Put(&token.EndObject{})
	default:
		panic(fmt.Sprintf("invalid value %#v", v))
	}
}
