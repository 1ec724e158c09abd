package lenticalib

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned by PixelBuffer accessors for coordinates
	// outside the buffer extent.
	ErrOutOfBounds = errors.New("pixel coordinate out of bounds")
	// ErrDegenerateGeometry marks a lens parameter combination for which the
	// projection is undefined.
	ErrDegenerateGeometry = errors.New("degenerate lens geometry")
	// ErrViewMismatch is returned when the views of a set do not share one size,
	// or do not match the canvas.
	ErrViewMismatch = errors.New("view size mismatch")
)

// GeometryError names the parameter that made the geometry degenerate.
type GeometryError struct {
	Param  string
	Value  float64
	Reason string
	Params LensParams
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s=%g (%s), params %s", ErrDegenerateGeometry, e.Param, e.Value, e.Reason, e.Params)
}

func (e *GeometryError) Unwrap() error { return ErrDegenerateGeometry }

func outOfBounds(x, y, w, h int) error {
	return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, w, h)
}
