package arraystream

import "fmt"

// A TransformError is returned by Run when the TransformFunc fails.
type TransformError struct {
	Index int // index of the element in the input array
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("cannot transform element %d: %s", e.Index, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
