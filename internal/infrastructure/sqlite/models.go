package sqlite

import (
	"fmt"
	"time"

	"github.com/fontedit/fontedit/internal/document"
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/store"
)

// DocumentModel is the single row of the document table.
type DocumentModel struct {
	GUID         string
	Name         string
	PointSize    float64
	GlyphWidth   int
	GlyphHeight  int
	MarginTop    int
	MarginBottom int
	ActiveGlyph  *int64 // nullable
	CreatedAt    int64  // Unix timestamp
	UpdatedAt    int64  // Unix timestamp
}

// GlyphModel is one row of the glyphs table. Bitmaps are font.PixelGrid.Pack
// bit streams.
type GlyphModel struct {
	Index    int
	Name     string
	Code     int64
	Original []byte
	Current  []byte
}

func toDocumentModel(face *font.Face, active *int, guid string, createdAt, updatedAt time.Time) *DocumentModel {
	size := face.GlyphSize()
	m := &DocumentModel{
		GUID:         guid,
		Name:         face.Name(),
		PointSize:    face.Metadata().PointSize,
		GlyphWidth:   size.Width,
		GlyphHeight:  size.Height,
		MarginTop:    face.Margins().Top,
		MarginBottom: face.Margins().Bottom,
		CreatedAt:    createdAt.Unix(),
		UpdatedAt:    updatedAt.Unix(),
	}
	if active != nil {
		a := int64(*active)
		m.ActiveGlyph = &a
	}
	return m
}

func toGlyphModel(index int, g *font.Glyph) *GlyphModel {
	return &GlyphModel{
		Index:    index,
		Name:     g.Name(),
		Code:     int64(g.Code()),
		Original: g.Original().Pack(),
		Current:  g.Pixels().Pack(),
	}
}

func (m *DocumentModel) toHeader(glyphCount int) store.Header {
	h := store.Header{
		GUID:       m.GUID,
		Name:       m.Name,
		GlyphCount: glyphCount,
		Version:    SchemaVersion,
		CreatedAt:  time.Unix(m.CreatedAt, 0),
		UpdatedAt:  time.Unix(m.UpdatedAt, 0),
	}
	if m.ActiveGlyph != nil {
		a := int(*m.ActiveGlyph)
		h.ActiveGlyph = &a
	}
	return h
}

func (g *GlyphModel) toDomain(width, height int) (*font.Glyph, error) {
	original, err := font.Unpack(width, height, g.Original)
	if err != nil {
		return nil, fmt.Errorf("glyph %d original: %w", g.Index, err)
	}
	current, err := font.Unpack(width, height, g.Current)
	if err != nil {
		return nil, fmt.Errorf("glyph %d current: %w", g.Index, err)
	}
	return font.RestoreGlyph(g.Name, rune(g.Code), original, current)
}

// toDomain rebuilds a clean document backed by path.
func (m *DocumentModel) toDomain(glyphs []*GlyphModel, path string) (*document.Document, error) {
	if m.GlyphWidth < 0 || m.GlyphHeight < 0 {
		return nil, fmt.Errorf("invalid glyph size %dx%d", m.GlyphWidth, m.GlyphHeight)
	}
	restored := make([]*font.Glyph, len(glyphs))
	for i, gm := range glyphs {
		g, err := gm.toDomain(m.GlyphWidth, m.GlyphHeight)
		if err != nil {
			return nil, err
		}
		restored[i] = g
	}

	face, err := font.NewFace(
		font.Metadata{Name: m.Name, PointSize: m.PointSize},
		restored,
		font.Margins{Top: m.MarginTop, Bottom: m.MarginBottom},
	)
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(face, path)
	if err != nil {
		return nil, err
	}
	if m.ActiveGlyph != nil {
		if err := doc.SetActiveGlyphIndex(int(*m.ActiveGlyph)); err != nil {
			return nil, fmt.Errorf("active glyph: %w", err)
		}
	}
	return doc, nil
}
