package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fontedit/fontedit/internal/font"
)

func testFace(t *testing.T) *font.Face {
	t.Helper()
	glyphs := []*font.Glyph{
		font.NewGlyph("A", 'A', font.MustParseGrid("...", "#.#", ".#.", "...")),
		font.NewGlyph("B", 'B', font.MustParseGrid("...", "###", "#..", "...")),
	}
	face, err := font.NewFace(font.Metadata{Name: "Test Font", PointSize: 4}, glyphs, font.DetectMargins(glyphs))
	require.NoError(t, err)
	return face
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Arduino ")
	require.NoError(t, err)
	require.Equal(t, FormatArduino, f)

	_, err = ParseFormat("rust")
	require.Error(t, err)

	require.Equal(t, FormatArduino, FormatC.Next())
	require.Equal(t, FormatC, FormatPython.Next())
	require.Len(t, Formats(), 3)
	require.Equal(t, ".py", FormatPython.Info().Extension)
	require.Equal(t, "C/C++", Format("rust").Info().Name)
}

func TestEncodeRow(t *testing.T) {
	g := font.NewGlyph("x", 'x', font.MustParseGrid("#.#.......#"))

	tests := []struct {
		name string
		opts Options
		want []byte
	}{
		{"msb", Options{MSBFirst: true}, []byte{0xA0, 0x20}},
		{"lsb", Options{}, []byte{0x05, 0x04}},
		{"msb inverted", Options{MSBFirst: true, InvertBits: true}, []byte{0x5F, 0xC0}},
		{"lsb inverted", Options{InvertBits: true}, []byte{0xFA, 0x03}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EncodeRow(g, 0, tt.opts))
		})
	}
}

func TestRowRange(t *testing.T) {
	face := testFace(t)

	first, last := RowRange(face, Options{})
	require.Equal(t, 1, first)
	require.Equal(t, 3, last)

	first, last = RowRange(face, Options{IncludeLineSpacing: true})
	require.Equal(t, 0, first)
	require.Equal(t, 4, last)

	require.Len(t, Encode(face, Options{}), 4)
	require.Len(t, Encode(face, Options{IncludeLineSpacing: true}), 8)
}

func TestRowRange_KeepsInkedMarginRows(t *testing.T) {
	face := testFace(t)
	before := Encode(face, Options{MSBFirst: true})

	g, err := face.Glyph(0)
	require.NoError(t, err)
	change, err := font.Toggle(g.Pixels(), 0, 0)
	require.NoError(t, err)
	require.NoError(t, g.Apply(change, font.Normal))

	first, last := RowRange(face, Options{})
	require.Equal(t, 0, first)
	require.Equal(t, 3, last)
	require.Equal(t, font.Margins{Top: 1, Bottom: 1}, face.Margins(), "stored margins are unchanged")

	after := Encode(face, Options{MSBFirst: true})
	require.NotEqual(t, before, after)
	require.Equal(t, byte(0x80), after[0])
}

func TestTemplateRenderer_EditedMarginRow(t *testing.T) {
	ctx := context.Background()
	p, err := NewDefaultPipeline()
	require.NoError(t, err)
	face := testFace(t)
	opts := Options{Format: FormatC, MSBFirst: true}

	before, err := p.Render(ctx, face, opts)
	require.NoError(t, err)

	g, err := face.Glyph(1)
	require.NoError(t, err)
	change, err := font.Toggle(g.Pixels(), 2, 3)
	require.NoError(t, err)
	require.NoError(t, g.Apply(change, font.Normal))

	after, err := p.Render(ctx, face, opts)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
	require.Contains(t, after, "..#")
}

func TestIdentifier(t *testing.T) {
	require.Equal(t, "test_font", Identifier("Test Font"))
	require.Equal(t, "go_mono_bold", Identifier("Go Mono -- Bold!"))
	require.Equal(t, "font_8x8", Identifier("8x8"))
	require.Equal(t, "font", Identifier("???"))
}

func TestTemplateRenderer_C(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	out, err := r.Render(context.Background(), testFace(t), DefaultOptions())
	require.NoError(t, err)

	want := `//
// Test Font
// Glyph size: 3x2 px, 2 bytes per glyph
// Invert bits: false, MSB first: true, line spacing: false
//

#include <stdint.h>

const uint8_t test_font[4] = {
    // 0: U+0041 LATIN CAPITAL LETTER A
    0xA0, // #.#
    0x40, // .#.
    // 1: U+0042 LATIN CAPITAL LETTER B
    0xE0, // ###
    0x80, // #..
};
`
	require.Equal(t, want, out)
}

func TestTemplateRenderer_OtherFormats(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	face := testFace(t)

	arduino, err := r.Render(context.Background(), face, Options{Format: FormatArduino, MSBFirst: true})
	require.NoError(t, err)
	require.Contains(t, arduino, "#include <Arduino.h>")
	require.Contains(t, arduino, "const uint8_t test_font[4] PROGMEM = {")

	python, err := r.Render(context.Background(), face, Options{Format: FormatPython, IncludeLineSpacing: true})
	require.NoError(t, err)
	require.Contains(t, python, "test_font = bytes([")
	require.Contains(t, python, "    0x05,  # #.#")
	require.Contains(t, python, "4 bytes per glyph")
	require.True(t, strings.HasSuffix(python, "])\n"))

	_, err = r.Render(context.Background(), face, Options{Format: "rust"})
	require.Error(t, err)
}

type countingRenderer struct {
	calls atomic.Int32
	err   error
}

func (c *countingRenderer) Render(_ context.Context, face *font.Face, opts Options) (string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	return face.Name() + " " + opts.String(), nil
}

func TestPipeline_CachesByContent(t *testing.T) {
	ctx := context.Background()
	renderer := &countingRenderer{}
	p := NewPipeline(renderer)
	face := testFace(t)

	_, err := p.Render(ctx, face, DefaultOptions())
	require.NoError(t, err)
	_, err = p.Render(ctx, face.Clone(), DefaultOptions())
	require.NoError(t, err)
	require.EqualValues(t, 1, renderer.calls.Load(), "identical content hits the cache")

	_, err = p.Render(ctx, face, Options{Format: FormatPython})
	require.NoError(t, err)
	require.EqualValues(t, 2, renderer.calls.Load(), "options are part of the key")

	g, err := face.Glyph(0)
	require.NoError(t, err)
	change, err := font.Toggle(g.Pixels(), 0, 0)
	require.NoError(t, err)
	require.NoError(t, g.Apply(change, font.Normal))
	_, err = p.Render(ctx, face, DefaultOptions())
	require.NoError(t, err)
	require.EqualValues(t, 3, renderer.calls.Load(), "edited content misses the cache")

	require.NoError(t, p.Invalidate(ctx))
	_, err = p.Render(ctx, face, DefaultOptions())
	require.NoError(t, err)
	require.EqualValues(t, 4, renderer.calls.Load())
}

func TestPipeline_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	renderer := &countingRenderer{err: boom}
	p := NewPipeline(renderer)

	_, err := p.Render(ctx, nil, DefaultOptions())
	require.ErrorIs(t, err, font.ErrEmptyFace)

	_, err = p.Render(ctx, testFace(t), Options{Format: "rust"})
	require.Error(t, err)
	require.Zero(t, renderer.calls.Load())

	_, err = p.Render(ctx, testFace(t), DefaultOptions())
	require.ErrorIs(t, err, boom)
	_, err = p.Render(ctx, testFace(t), DefaultOptions())
	require.ErrorIs(t, err, boom)
	require.EqualValues(t, 2, renderer.calls.Load(), "failures are not cached")
}

func TestPipeline_WriteFile(t *testing.T) {
	p, err := NewDefaultPipeline()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "font.h")

	require.NoError(t, p.WriteFile(context.Background(), testFace(t), DefaultOptions(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "const uint8_t test_font[4]")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file removed")
}

func TestPipeline_WriteFileMissingDir(t *testing.T) {
	p, err := NewDefaultPipeline()
	require.NoError(t, err)

	err = p.WriteFile(context.Background(), testFace(t), DefaultOptions(), filepath.Join(t.TempDir(), "missing", "font.h"))
	require.Error(t, err)
}

func TestFingerprint_Stable(t *testing.T) {
	face := testFace(t)
	require.Equal(t, Fingerprint(face, DefaultOptions()), Fingerprint(face.Clone(), DefaultOptions()))
	require.NotEqual(t, Fingerprint(face, DefaultOptions()), Fingerprint(face, Options{Format: FormatC}))
}

func TestDiffSource(t *testing.T) {
	before := "a\nb\nc\n"
	after := "a\nB\nc\nd\n"

	d := DiffSource(before, after)

	require.True(t, d.Changed())
	require.Equal(t, 2, d.Added)
	require.Equal(t, 1, d.Removed)
	require.Equal(t, "  a\n- b\n+ B\n  c\n+ d\n", d.Text)

	require.False(t, DiffSource(before, before).Changed())
}
