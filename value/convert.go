package value

import (
	"fmt"
	"math"
	"slices"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

// FromGo converts a tree of Go values, as produced by unmarshaling JSON or
// YAML into an interface{}, into a Value.  Map keys are sorted as Go maps are
// not ordered.
func FromGo(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Uint(uint64(v)), nil
	case uint8:
		return Uint(uint64(v)), nil
	case uint16:
		return Uint(uint64(v)), nil
	case uint32:
		return Uint(uint64(v)), nil
	case uint64:
		return Uint(v), nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		return ParseNumber(string(v))
	case []any:
		arr := &Array{items: make([]Value, 0, len(v))}
		for i, item := range v {
			itemValue, err := FromGo(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr.Append(itemValue)
		}
		return arr, nil
	case map[string]any:
		keys := lo.Keys(v)
		slices.Sort(keys)
		obj := &Object{}
		for _, k := range keys {
			itemValue, err := FromGo(v[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, itemValue)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a JSON value", x)
	}
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNumber, f)
	}
	return Float(f), nil
}

// ToGo converts v into a tree of Go values: nil, bool, json.Number, string,
// []any and map[string]any.
func ToGo(v Value) any {
	switch x := orNull(v).(type) {
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Number:
		return json.Number(x.String())
	case String:
		return string(x)
	case *Array:
		items := make([]any, x.Len())
		for i, item := range x.All() {
			items[i] = ToGo(item)
		}
		return items
	case *Object:
		m := make(map[string]any, x.Len())
		for k, item := range x.All() {
			m[k] = ToGo(item)
		}
		return m
	default:
		panic(fmt.Sprintf("invalid value %#v", v))
	}
}
