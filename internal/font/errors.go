package font

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFace is returned when a face would contain no glyphs.
	ErrEmptyFace = errors.New("face has no glyphs")

	// ErrSizeMismatch is returned when two grids that must share dimensions don't.
	ErrSizeMismatch = errors.New("pixel grid dimensions differ")
)

// IndexOutOfRangeError reports a glyph index outside the face.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("glyph index %d out of range [0, %d)", e.Index, e.Count)
}

// InvalidCoordinateError reports a pixel coordinate outside a grid.
type InvalidCoordinateError struct {
	X, Y          int
	Width, Height int
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("pixel (%d, %d) outside %dx%d grid", e.X, e.Y, e.Width, e.Height)
}
