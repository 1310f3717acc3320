package flow

import (
	"errors"
	"fmt"
)

// Domain errors for field construction and access.
var (
	// ErrShape indicates input that is not a rectangular 3D (or 2D) array.
	ErrShape = errors.New("flow: input is not a rectangular array")

	// ErrEmptyAxis indicates an axis with zero samples.
	ErrEmptyAxis = errors.New("flow: axis has no samples")

	// ErrTimeAxis indicates a time override of the wrong length or ordering.
	ErrTimeAxis = errors.New("flow: time axis must match field length and be strictly monotonic")

	// ErrIndexOutOfRange indicates a radius, angle, or time index outside the field.
	ErrIndexOutOfRange = errors.New("flow: index out of range")
)

// ShapeError wraps ErrShape with the offending position.
type ShapeError struct {
	Axis     string
	Index    int
	Got      int
	Expected int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("flow: %s %d has %d samples, expected %d", e.Axis, e.Index, e.Got, e.Expected)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}
