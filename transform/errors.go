package transform

import (
	"errors"
	"fmt"

	"github.com/arnodel/arraystream/value"
)

// ErrNotAnObject is matched by errors about a path going through something
// that is not an object.
var ErrNotAnObject = errors.New("not an object")

// A NotAnObjectError reports a path going through a value that is not an
// object.  Path is the prefix that led to it (empty for the element itself).
type NotAnObjectError struct {
	Path Path
	Kind value.Kind
}

func (e *NotAnObjectError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("element is %s, %s", e.Kind, ErrNotAnObject)
	}
	return fmt.Sprintf("%s is %s, %s", e.Path, e.Kind, ErrNotAnObject)
}

func (e *NotAnObjectError) Is(target error) bool {
	return target == ErrNotAnObject
}
