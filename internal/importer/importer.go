// Package importer rasterizes vector fonts into bitmap faces.
package importer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/log"
)

// Built-in font names accepted in Descriptor.Path.
const (
	BuiltinMono    = "builtin:gomono"
	BuiltinRegular = "builtin:goregular"
)

const (
	DefaultSize      = 12
	DefaultDPI       = 72
	DefaultThreshold = 128
)

// Descriptor selects a font file and how to rasterize it.
type Descriptor struct {
	// Path is a TrueType/OpenType file or one of the Builtin names.
	Path string
	// Data, when set, is used instead of reading Path.
	Data []byte
	// Size in points.
	Size float64
	DPI  float64
	// Runes to rasterize, in glyph order.
	Runes []rune
	// Threshold is the minimum coverage (0-255) for a pixel to be set.
	Threshold uint8
}

func (d Descriptor) withDefaults() Descriptor {
	if d.Size <= 0 {
		d.Size = DefaultSize
	}
	if d.DPI <= 0 {
		d.DPI = DefaultDPI
	}
	if d.Threshold == 0 {
		d.Threshold = DefaultThreshold
	}
	return d
}

// IsFontPath reports whether path names something Import can read: a
// TrueType or OpenType file, or a Builtin name.
func IsFontPath(path string) bool {
	if strings.HasPrefix(path, "builtin:") {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// Importer turns a Descriptor into a Face.
type Importer interface {
	Import(ctx context.Context, desc Descriptor) (*font.Face, error)
}

// OpenType rasterizes sfnt fonts with golang.org/x/image.
type OpenType struct{}

// New returns an OpenType importer.
func New() *OpenType {
	return &OpenType{}
}

// Import rasterizes every requested rune into a fixed size cell. The cell
// is as wide as the widest advance and as tall as ascent plus descent.
func (o *OpenType) Import(ctx context.Context, desc Descriptor) (*font.Face, error) {
	desc = desc.withDefaults()
	if len(desc.Runes) == 0 {
		return nil, fmt.Errorf("no runes requested: %w", font.ErrEmptyFace)
	}

	data, err := desc.load()
	if err != nil {
		return nil, err
	}
	parsed, err := parseFont(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", desc.Path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    desc.Size,
		DPI:     desc.DPI,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer func() { _ = face.Close() }()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()

	runes := make([]rune, 0, len(desc.Runes))
	width := 0
	for _, r := range desc.Runes {
		advance, ok := face.GlyphAdvance(r)
		if !ok {
			log.Debug(log.CatImport, "Skipping rune missing from font", "rune", fmt.Sprintf("%U", r))
			continue
		}
		runes = append(runes, r)
		width = max(width, advance.Ceil())
	}
	if len(runes) == 0 || width == 0 || height <= 0 {
		return nil, fmt.Errorf("font %s has none of the requested runes: %w", desc.Path, font.ErrEmptyFace)
	}

	glyphs := make([]*font.Glyph, 0, len(runes))
	for _, r := range runes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		grid := rasterize(face, r, width, height, ascent, desc.Threshold)
		glyphs = append(glyphs, font.NewGlyph(string(r), r, grid))
	}

	meta := font.Metadata{Name: fontName(parsed, desc.Path), PointSize: desc.Size}
	result, err := font.NewFace(meta, glyphs, font.DetectMargins(glyphs))
	if err != nil {
		return nil, err
	}
	log.Info(log.CatImport, "Imported font", "name", meta.Name, "glyphs", len(glyphs), "size", result.GlyphSize())
	return result, nil
}

// parseFont reads a single font or the first font of a TTC/OTC collection.
func parseFont(data []byte) (*sfnt.Font, error) {
	c, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if c.NumFonts() == 0 {
		return nil, fmt.Errorf("font collection is empty")
	}
	return c.Font(0)
}

func (d Descriptor) load() ([]byte, error) {
	if len(d.Data) > 0 {
		return d.Data, nil
	}
	switch d.Path {
	case BuiltinMono, "":
		return gomono.TTF, nil
	case BuiltinRegular:
		return goregular.TTF, nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return data, nil
}

func rasterize(face xfont.Face, r rune, width, height, ascent int, threshold uint8) *font.PixelGrid {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	d := xfont.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(string(r))

	grid := font.NewPixelGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dst.GrayAt(x, y).Y >= threshold {
				grid.Set(x, y, true)
			}
		}
	}
	return grid
}

func fontName(f *sfnt.Font, path string) string {
	for _, id := range []sfnt.NameID{sfnt.NameIDFull, sfnt.NameIDFamily} {
		name, err := f.Name(nil, id)
		if err == nil && name != "" {
			return name
		}
		if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
			log.Debug(log.CatImport, "Reading font name failed", "id", id, "error", err)
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
