package font

import (
	"fmt"

	"golang.org/x/text/unicode/runenames"
)

// NoCode marks a glyph that is not bound to a code point.
const NoCode rune = -1

// Glyph is one character bitmap together with the snapshot captured when it
// was imported. The glyph tracks how many pixels differ from that snapshot,
// so IsModified stays O(1) and edits stay O(changed pixels).
type Glyph struct {
	name     string
	code     rune
	original *PixelGrid
	current  *PixelGrid
	diffs    int
}

// NewGlyph creates an unmodified glyph; pixels become both the original and
// the current bitmap.
func NewGlyph(name string, code rune, pixels *PixelGrid) *Glyph {
	return &Glyph{
		name:     name,
		code:     code,
		original: pixels.Clone(),
		current:  pixels.Clone(),
	}
}

// RestoreGlyph rebuilds a glyph from a persisted original and current bitmap.
func RestoreGlyph(name string, code rune, original, current *PixelGrid) (*Glyph, error) {
	if !original.SameSize(current) {
		return nil, fmt.Errorf("glyph %q: %w", name, ErrSizeMismatch)
	}
	g := &Glyph{
		name:     name,
		code:     code,
		original: original.Clone(),
		current:  current.Clone(),
	}
	for i, p := range g.current.pixels {
		if p != g.original.pixels[i] {
			g.diffs++
		}
	}
	return g, nil
}

// Name returns the glyph identifier.
func (g *Glyph) Name() string { return g.name }

// Code returns the code point or NoCode.
func (g *Glyph) Code() rune { return g.code }

// Label is a human readable description such as "U+0041 LATIN CAPITAL LETTER A".
func (g *Glyph) Label() string {
	if g.code == NoCode {
		return g.name
	}
	if name := runenames.Name(g.code); name != "" {
		return fmt.Sprintf("U+%04X %s", g.code, name)
	}
	return fmt.Sprintf("U+%04X", g.code)
}

// Width returns the bitmap width.
func (g *Glyph) Width() int { return g.current.Width() }

// Height returns the bitmap height.
func (g *Glyph) Height() int { return g.current.Height() }

// At reports whether the current pixel at (x, y) is set.
func (g *Glyph) At(x, y int) bool { return g.current.At(x, y) }

// Pixels returns a copy of the current bitmap.
func (g *Glyph) Pixels() *PixelGrid { return g.current.Clone() }

// Original returns a copy of the as-imported bitmap.
func (g *Glyph) Original() *PixelGrid { return g.original.Clone() }

// IsModified reports whether the current bitmap differs from the original.
func (g *Glyph) IsModified() bool { return g.diffs > 0 }

// Apply writes change onto the current bitmap in direction t.
func (g *Glyph) Apply(change BatchPixelChange, t ChangeType) error {
	if err := change.Validate(g.Width(), g.Height()); err != nil {
		return err
	}
	change.each(t, g.set)
	return nil
}

func (g *Glyph) set(x, y int, value bool) {
	was := g.current.At(x, y)
	if was == value {
		return
	}
	g.current.Set(x, y, value)
	if value == g.original.At(x, y) {
		g.diffs--
	} else {
		g.diffs++
	}
}

// ResetChange returns the change that brings the current bitmap back to the
// original. Applying it Normal resets; Reverse restores the edits.
func (g *Glyph) ResetChange() BatchPixelChange {
	change, _ := Diff(g.current, g.original)
	return change
}

// Reset restores the original bitmap.
func (g *Glyph) Reset() {
	g.current = g.original.Clone()
	g.diffs = 0
}

// Clone returns a deep copy.
func (g *Glyph) Clone() *Glyph {
	return &Glyph{
		name:     g.name,
		code:     g.code,
		original: g.original.Clone(),
		current:  g.current.Clone(),
		diffs:    g.diffs,
	}
}

// Equal reports whether both glyphs carry the same identity and bitmaps.
func (g *Glyph) Equal(other *Glyph) bool {
	return other != nil &&
		g.name == other.name &&
		g.code == other.code &&
		g.current.Equal(other.current) &&
		g.original.Equal(other.original)
}
