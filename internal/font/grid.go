// Package font holds the bitmap font model: pixel grids, reversible pixel
// changes, glyphs with their as-imported snapshot, and faces.
//
// The package has no infrastructure dependencies. Rasterization, persistence
// and source code generation live in importer, store and export.
package font

import (
	"fmt"
	"strings"
)

// Grid text form used by ParseGrid and String.
const (
	pixelSet   = '#'
	pixelUnset = '.'
)

// PixelGrid is a fixed-size 2-D bitmap. Coordinates are (x, y) with the
// origin at the top-left corner.
type PixelGrid struct {
	width  int
	height int
	pixels []bool
}

// NewPixelGrid returns an all-clear grid. Negative dimensions panic.
func NewPixelGrid(width, height int) *PixelGrid {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("font: invalid grid size %dx%d", width, height))
	}
	return &PixelGrid{
		width:  width,
		height: height,
		pixels: make([]bool, width*height),
	}
}

// ParseGrid builds a grid from rows of '#' (set) and '.' (clear).
// All rows must have the same length.
func ParseGrid(rows ...string) (*PixelGrid, error) {
	if len(rows) == 0 {
		return NewPixelGrid(0, 0), nil
	}
	width := len(rows[0])
	g := NewPixelGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d: %w", y, len(row), width, ErrSizeMismatch)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case pixelSet:
				g.pixels[y*width+x] = true
			case pixelUnset:
			default:
				return nil, fmt.Errorf("row %d: unexpected character %q", y, row[x])
			}
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid that panics on error.
func MustParseGrid(rows ...string) *PixelGrid {
	g, err := ParseGrid(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of columns.
func (g *PixelGrid) Width() int { return g.width }

// Height returns the number of rows.
func (g *PixelGrid) Height() int { return g.height }

// Contains reports whether (x, y) lies inside the grid.
func (g *PixelGrid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At reports whether the pixel at (x, y) is set.
// Out-of-range coordinates are a programming error and panic.
func (g *PixelGrid) At(x, y int) bool {
	return g.pixels[g.offset(x, y)]
}

// Set assigns the pixel at (x, y). Out-of-range coordinates panic.
func (g *PixelGrid) Set(x, y int, value bool) {
	g.pixels[g.offset(x, y)] = value
}

func (g *PixelGrid) offset(x, y int) int {
	if !g.Contains(x, y) {
		panic(&InvalidCoordinateError{X: x, Y: y, Width: g.width, Height: g.height})
	}
	return y*g.width + x
}

// Clone returns a deep copy.
func (g *PixelGrid) Clone() *PixelGrid {
	c := &PixelGrid{width: g.width, height: g.height, pixels: make([]bool, len(g.pixels))}
	copy(c.pixels, g.pixels)
	return c
}

// Equal reports whether both grids have the same size and pixels.
func (g *PixelGrid) Equal(other *PixelGrid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for i, p := range g.pixels {
		if p != other.pixels[i] {
			return false
		}
	}
	return true
}

// SameSize reports whether other has the same dimensions.
func (g *PixelGrid) SameSize(other *PixelGrid) bool {
	return other != nil && g.width == other.width && g.height == other.height
}

// Count returns the number of set pixels.
func (g *PixelGrid) Count() int {
	n := 0
	for _, p := range g.pixels {
		if p {
			n++
		}
	}
	return n
}

// RowEmpty reports whether no pixel in row y is set.
func (g *PixelGrid) RowEmpty(y int) bool {
	for x := 0; x < g.width; x++ {
		if g.At(x, y) {
			return false
		}
	}
	return true
}

// Rows returns the grid in its '#'/'.' text form, one string per row.
func (g *PixelGrid) Rows() []string {
	rows := make([]string, g.height)
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		b.Reset()
		for x := 0; x < g.width; x++ {
			if g.At(x, y) {
				b.WriteByte(pixelSet)
			} else {
				b.WriteByte(pixelUnset)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// String implements fmt.Stringer using the text form, rows separated by '\n'.
func (g *PixelGrid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// Pack encodes the pixels row-major as a bit stream, most significant bit
// first, padded to a whole byte at the end.
func (g *PixelGrid) Pack() []byte {
	out := make([]byte, (len(g.pixels)+7)/8)
	for i, p := range g.pixels {
		if p {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// Unpack decodes a bit stream produced by Pack into a width x height grid.
func Unpack(width, height int, data []byte) (*PixelGrid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if want := (width*height + 7) / 8; len(data) != want {
		return nil, fmt.Errorf("packed grid is %d bytes, want %d for %dx%d", len(data), want, width, height)
	}
	g := NewPixelGrid(width, height)
	for i := range g.pixels {
		g.pixels[i] = data[i/8]&(0x80>>(i%8)) != 0
	}
	return g, nil
}
