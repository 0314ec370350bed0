package export

import (
	"fmt"
	"strings"

	"github.com/fontedit/fontedit/internal/font"
)

// RowRange returns the glyph rows [first, last) that are exported. Margin
// rows that hold edited pixels are kept.
func RowRange(face *font.Face, opts Options) (first, last int) {
	height := face.GlyphSize().Height
	if opts.IncludeLineSpacing {
		return 0, height
	}
	m := face.InkMargins()
	return m.Top, height - m.Bottom
}

// BytesPerRow is the number of bytes one pixel row of width occupies.
func BytesPerRow(width int) int {
	return (width + 7) / 8
}

// EncodeRow packs row y of g into bytes. Padding bits are always zero.
func EncodeRow(g *font.Glyph, y int, opts Options) []byte {
	out := make([]byte, BytesPerRow(g.Width()))
	for x := 0; x < g.Width(); x++ {
		if g.At(x, y) == opts.InvertBits {
			continue
		}
		shift := x % 8
		if opts.MSBFirst {
			shift = 7 - shift
		}
		out[x/8] |= 1 << shift
	}
	return out
}

// EncodeGlyph packs the exported rows of g.
func EncodeGlyph(g *font.Glyph, first, last int, opts Options) []byte {
	out := make([]byte, 0, (last-first)*BytesPerRow(g.Width()))
	for y := first; y < last; y++ {
		out = append(out, EncodeRow(g, y, opts)...)
	}
	return out
}

// Encode packs every glyph of face in order.
func Encode(face *font.Face, opts Options) []byte {
	first, last := RowRange(face, opts)
	var out []byte
	for _, g := range face.Glyphs() {
		out = append(out, EncodeGlyph(g, first, last, opts)...)
	}
	return out
}

func hexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, ", ")
}

func rowArt(g *font.Glyph, y int) string {
	var b strings.Builder
	for x := 0; x < g.Width(); x++ {
		if g.At(x, y) {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
