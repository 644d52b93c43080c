package arraystream

import (
	"log/slog"

	"github.com/arnodel/arraystream/value"
)

// LogTransform logs the outcome of f for each element: at debug level when it
// succeeds, at error level when it fails.  A nil logger means slog.Default().
func LogTransform(logger *slog.Logger, f TransformFunc) TransformFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if f == nil {
		f = Identity
	}
	var index int
	return func(v value.Value) (value.Value, error) {
		kind := value.KindOf(v).String()
		v, err := f(v)
		switch err {
		case nil:
			logger.Debug("transformed", "index", index, "kind", kind)
		default:
			logger.Error("transform failed", "index", index, "kind", kind, "err", err)
		}
		index++
		return v, err
	}
}
