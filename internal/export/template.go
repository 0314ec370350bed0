package export

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/templates"
)

// Renderer turns a face into source code.
type Renderer interface {
	Render(ctx context.Context, face *font.Face, opts Options) (string, error)
}

type templateData struct {
	Name               string
	Identifier         string
	Width              int
	Height             int
	BytesPerGlyph      int
	TotalBytes         int
	InvertBits         bool
	MSBFirst           bool
	IncludeLineSpacing bool
	Glyphs             []glyphData
}

type glyphData struct {
	Index int
	Label string
	Rows  []rowData
}

type rowData struct {
	Bytes string
	Art   string
}

// TemplateRenderer renders faces with the embedded per-format templates.
type TemplateRenderer struct {
	templates map[Format]*template.Template
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	fsys := templates.ExportFS()
	r := &TemplateRenderer{templates: make(map[Format]*template.Template, len(formats))}
	for _, info := range formats {
		name := string(info.ID) + ".tmpl"
		tmpl, err := template.ParseFS(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[info.ID] = tmpl
	}
	return r, nil
}

// Render generates source code for face.
func (r *TemplateRenderer) Render(ctx context.Context, face *font.Face, opts Options) (string, error) {
	if face == nil {
		return "", font.ErrEmptyFace
	}
	tmpl, ok := r.templates[opts.Format]
	if !ok {
		return "", fmt.Errorf("unknown export format %q", opts.Format)
	}

	first, last := RowRange(face, opts)
	size := face.GlyphSize()
	data := templateData{
		Name:               face.Name(),
		Identifier:         Identifier(face.Name()),
		Width:              size.Width,
		Height:             last - first,
		BytesPerGlyph:      (last - first) * BytesPerRow(size.Width),
		InvertBits:         opts.InvertBits,
		MSBFirst:           opts.MSBFirst,
		IncludeLineSpacing: opts.IncludeLineSpacing,
	}
	data.TotalBytes = data.BytesPerGlyph * face.Len()

	for i, g := range face.Glyphs() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		gd := glyphData{Index: i, Label: g.Label()}
		for y := first; y < last; y++ {
			gd.Rows = append(gd.Rows, rowData{
				Bytes: hexBytes(EncodeRow(g, y, opts)),
				Art:   rowArt(g, y),
			})
		}
		data.Glyphs = append(data.Glyphs, gd)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return b.String(), nil
}

// Identifier turns a face name into a valid C and Python identifier.
func Identifier(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	id := strings.TrimSuffix(b.String(), "_")
	if id == "" {
		return "font"
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "font_" + id
	}
	return id
}
