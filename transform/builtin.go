// Package transform provides element transforms that edit members of JSON
// objects, and a way to load them from rule files.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/arnodel/arraystream"
	"github.com/arnodel/arraystream/encoding/json"
	"github.com/arnodel/arraystream/value"
)

// Set makes a transform that sets the member at path to a copy of v.  Missing
// objects along the path are created.
//
// E.g. with path "_source.lexiconName" and v "Core"
//
//	{"_source": {"id": 1}} -> {"_source": {"id": 1, "lexiconName": "Core"}}
//	{"id": 2}              -> {"id": 2, "_source": {"lexiconName": "Core"}}
//	{"_source": 3}         -> error
func Set(path Path, v value.Value) arraystream.TransformFunc {
	return func(elt value.Value) (value.Value, error) {
		obj, err := path.parent(elt, true)
		if err != nil {
			return nil, err
		}
		obj.Set(path.last(), value.Clone(v))
		return elt, nil
	}
}

// Delete makes a transform that removes the member at path, if it exists.
//
// E.g. with path "a.b"
//
//	{"a": {"b": 1, "c": 2}} -> {"a": {"c": 2}}
//	{"x": 1}                -> {"x": 1}
func Delete(path Path) arraystream.TransformFunc {
	return func(elt value.Value) (value.Value, error) {
		obj, err := path.parent(elt, false)
		if err != nil || obj == nil {
			return elt, err
		}
		obj.Delete(path.last())
		return elt, nil
	}
}

// RenameMember makes a transform that moves the member at from to to.  Elements
// without a member at from are left unchanged.
//
// E.g. with from "name" and to "meta.title"
//
//	{"name": "x", "id": 1} -> {"id": 1, "meta": {"title": "x"}}
func RenameMember(from, to Path) arraystream.TransformFunc {
	return func(elt value.Value) (value.Value, error) {
		if to.hasPrefix(from) {
			return nil, fmt.Errorf("cannot rename %s to %s", from, to)
		}
		src, err := from.parent(elt, false)
		if err != nil || src == nil {
			return elt, err
		}
		v, ok := src.Get(from.last())
		if !ok {
			return elt, nil
		}
		dst, err := to.parent(elt, true)
		if err != nil {
			return nil, err
		}
		src.Delete(from.last())
		dst.Set(to.last(), v)
		return elt, nil
	}
}

// Chain applies the transforms in order.
func Chain(fs ...arraystream.TransformFunc) arraystream.TransformFunc {
	return arraystream.Chain(fs...)
}

// Trace makes a transform that logs each element at debug level and passes
// it on unchanged.  It's useful for debugging rules.
func Trace(logger *slog.Logger) arraystream.TransformFunc {
	if logger == nil {
		logger = slog.Default()
	}
	var index int
	return func(elt value.Value) (value.Value, error) {
		data, err := json.Marshal(elt)
		switch err {
		case nil:
			logger.Debug("element", "index", index, "value", string(data))
		default:
			logger.Debug("element", "index", index, "err", err)
		}
		index++
		return elt, nil
	}
}
