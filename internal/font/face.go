package font

import "fmt"

// Size is a bitmap size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Margins counts the rows at the top and bottom of the glyph cell that are
// empty in every glyph of the face.
type Margins struct {
	Top    int
	Bottom int
}

// Metadata describes where a face came from.
type Metadata struct {
	Name      string
	PointSize float64
}

// Info summarizes a face for display.
type Info struct {
	FontName           string
	Size               Size
	SizeWithoutMargins Size
	NumberOfGlyphs     int
}

// Face is an ordered collection of equally sized glyphs. The slice index is
// the canonical glyph index and never changes for the lifetime of the face.
type Face struct {
	meta    Metadata
	size    Size
	margins Margins
	glyphs  []*Glyph
}

// NewFace builds a face. It fails with ErrEmptyFace when glyphs is empty and
// with ErrSizeMismatch when glyph bitmaps differ in size.
func NewFace(meta Metadata, glyphs []*Glyph, margins Margins) (*Face, error) {
	if len(glyphs) == 0 {
		return nil, ErrEmptyFace
	}
	for i, g := range glyphs {
		if g == nil {
			return nil, fmt.Errorf("glyph %d is nil", i)
		}
	}
	size := Size{Width: glyphs[0].Width(), Height: glyphs[0].Height()}
	for i, g := range glyphs {
		if g.Width() != size.Width || g.Height() != size.Height {
			return nil, fmt.Errorf("glyph %d is %dx%d, face is %s: %w", i, g.Width(), g.Height(), size, ErrSizeMismatch)
		}
	}
	if margins.Top < 0 || margins.Bottom < 0 || margins.Top+margins.Bottom > size.Height {
		return nil, fmt.Errorf("margins %+v do not fit glyph height %d", margins, size.Height)
	}
	return &Face{
		meta:    meta,
		size:    size,
		margins: margins,
		glyphs:  append([]*Glyph(nil), glyphs...),
	}, nil
}

// DetectMargins finds the rows that are empty across all glyphs at the top
// and bottom of the cell. A face whose glyphs are all blank has no margins.
func DetectMargins(glyphs []*Glyph) Margins {
	if len(glyphs) == 0 {
		return Margins{}
	}
	height := glyphs[0].Height()
	blank := func(y int) bool {
		for _, g := range glyphs {
			if !g.current.RowEmpty(y) {
				return false
			}
		}
		return true
	}

	var m Margins
	for m.Top < height && blank(m.Top) {
		m.Top++
	}
	if m.Top == height {
		return Margins{}
	}
	for m.Bottom < height-m.Top && blank(height-1-m.Bottom) {
		m.Bottom++
	}
	return m
}

// Metadata returns the source description.
func (f *Face) Metadata() Metadata { return f.meta }

// Name returns the source font name.
func (f *Face) Name() string { return f.meta.Name }

// GlyphSize returns the shared bitmap size.
func (f *Face) GlyphSize() Size { return f.size }

// Margins returns the face margins.
func (f *Face) Margins() Margins { return f.margins }

// InkMargins returns the margins shrunk so that no row holding a set pixel
// in any glyph lies inside them.
func (f *Face) InkMargins() Margins {
	m := f.margins
	height := f.size.Height
	for y := 0; y < m.Top; y++ {
		if !f.rowBlank(y) {
			m.Top = y
			break
		}
	}
	for i := 0; i < m.Bottom; i++ {
		if !f.rowBlank(height - 1 - i) {
			m.Bottom = i
			break
		}
	}
	return m
}

func (f *Face) rowBlank(y int) bool {
	for _, g := range f.glyphs {
		if !g.current.RowEmpty(y) {
			return false
		}
	}
	return true
}

// Len returns the number of glyphs.
func (f *Face) Len() int { return len(f.glyphs) }

// Glyph returns the glyph at index i.
func (f *Face) Glyph(i int) (*Glyph, error) {
	if i < 0 || i >= len(f.glyphs) {
		return nil, &IndexOutOfRangeError{Index: i, Count: len(f.glyphs)}
	}
	return f.glyphs[i], nil
}

// Glyphs returns the glyphs in index order. The slice is a copy; the glyphs
// are shared.
func (f *Face) Glyphs() []*Glyph {
	return append([]*Glyph(nil), f.glyphs...)
}

// IsModified reports whether any glyph differs from its original.
func (f *Face) IsModified() bool {
	for _, g := range f.glyphs {
		if g.IsModified() {
			return true
		}
	}
	return false
}

// ModifiedIndices lists the indices of modified glyphs in order.
func (f *Face) ModifiedIndices() []int {
	var out []int
	for i, g := range f.glyphs {
		if g.IsModified() {
			out = append(out, i)
		}
	}
	return out
}

// Reset restores every glyph to its original bitmap.
func (f *Face) Reset() {
	for _, g := range f.glyphs {
		g.Reset()
	}
}

// Info summarizes the face.
func (f *Face) Info() Info {
	return Info{
		FontName: f.meta.Name,
		Size:     f.size,
		SizeWithoutMargins: Size{
			Width:  f.size.Width,
			Height: f.size.Height - f.margins.Top - f.margins.Bottom,
		},
		NumberOfGlyphs: len(f.glyphs),
	}
}

// Clone returns a deep copy that shares nothing with f.
func (f *Face) Clone() *Face {
	glyphs := make([]*Glyph, len(f.glyphs))
	for i, g := range f.glyphs {
		glyphs[i] = g.Clone()
	}
	return &Face{meta: f.meta, size: f.size, margins: f.margins, glyphs: glyphs}
}

// Equal reports whether both faces have the same metadata, margins and glyphs.
func (f *Face) Equal(other *Face) bool {
	if other == nil || f.meta != other.meta || f.size != other.size ||
		f.margins != other.margins || len(f.glyphs) != len(other.glyphs) {
		return false
	}
	for i, g := range f.glyphs {
		if !g.Equal(other.glyphs[i]) {
			return false
		}
	}
	return true
}
