// Package document owns the editable face, the active glyph selection, dirty
// tracking and the undo scope.
//
// Every content change goes through ModifyGlyph, ResetGlyph, ResetFace or
// ImportFace; everything else is read-only. Accessors hand out copies, so
// callers cannot change pixels behind the document's back.
package document

import (
	"errors"
	"fmt"

	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/history"
	"github.com/fontedit/fontedit/internal/log"
)

// ErrNoFace is returned by operations that need a loaded face.
var ErrNoFace = errors.New("no face loaded")

const noActiveGlyph = -1

// Document is the unit of editing: one face, its selection, its undo log and
// its backing path. It is not safe for concurrent use; all calls come from
// the single editing loop.
type Document struct {
	face    *font.Face
	active  int
	path    string
	history *history.Log

	// modifiedGlyphs counts glyphs whose bitmap differs from the original,
	// so the document flag is O(1) after each edit.
	modifiedGlyphs int

	// unsavedReset is set when ResetFace discarded content that the clean
	// mark of the (now cleared) history cannot account for.
	unsavedReset bool
}

// New returns an empty document with no face.
func New() *Document {
	return &Document{
		active:  noActiveGlyph,
		history: history.NewLog(),
	}
}

// Open returns a document for a face that was persisted at path. Glyphs may
// already differ from their originals; that state is kept.
func Open(face *font.Face, path string) (*Document, error) {
	d := New()
	if err := d.ImportFace(face); err != nil {
		return nil, err
	}
	d.path = path
	return d, nil
}

// ImportFace replaces the face. The selection, the dirty flags and the undo
// log are reset. A nil or empty face fails with font.ErrEmptyFace and leaves
// the document unchanged.
func (d *Document) ImportFace(face *font.Face) error {
	if face == nil || face.Len() == 0 {
		return font.ErrEmptyFace
	}
	d.face = face
	d.active = noActiveGlyph
	d.path = ""
	d.modifiedGlyphs = len(face.ModifiedIndices())
	d.unsavedReset = false
	d.history.Clear()
	log.Info(log.CatDocument, "Imported face", "name", face.Name(), "glyphs", face.Len())
	return nil
}

// Close drops the face and everything tied to it.
func (d *Document) Close() {
	d.face = nil
	d.active = noActiveGlyph
	d.path = ""
	d.modifiedGlyphs = 0
	d.unsavedReset = false
	d.history.Clear()
}

// HasFace reports whether a face is loaded.
func (d *Document) HasFace() bool { return d.face != nil }

// GlyphCount returns the number of glyphs, 0 without a face.
func (d *Document) GlyphCount() int {
	if d.face == nil {
		return 0
	}
	return d.face.Len()
}

// Path returns the backing file path, empty until the first save or open.
func (d *Document) Path() string { return d.path }

// History returns the document's undo log.
func (d *Document) History() *history.Log { return d.history }

// Info summarizes the face. The zero Info is returned without a face.
func (d *Document) Info() font.Info {
	if d.face == nil {
		return font.Info{}
	}
	return d.face.Info()
}

// Margins returns the face margins.
func (d *Document) Margins() font.Margins {
	if d.face == nil {
		return font.Margins{}
	}
	return d.face.Margins()
}

// Snapshot returns a deep copy of the face, or nil without one. Later edits
// are not visible through the copy.
func (d *Document) Snapshot() *font.Face {
	if d.face == nil {
		return nil
	}
	return d.face.Clone()
}

// Glyph returns a copy of glyph i.
func (d *Document) Glyph(i int) (*font.Glyph, error) {
	g, err := d.glyph(i)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (d *Document) glyph(i int) (*font.Glyph, error) {
	if d.face == nil {
		return nil, ErrNoFace
	}
	return d.face.Glyph(i)
}

// ActiveGlyphIndex returns the selected glyph index, if any.
func (d *Document) ActiveGlyphIndex() (int, bool) {
	return d.active, d.active != noActiveGlyph
}

// ActiveGlyph returns a copy of the selected glyph, if any.
func (d *Document) ActiveGlyph() (*font.Glyph, bool) {
	if d.active == noActiveGlyph {
		return nil, false
	}
	g, err := d.Glyph(d.active)
	if err != nil {
		return nil, false
	}
	return g, true
}

// SetActiveGlyphIndex selects glyph i. Selection is navigation only and does
// not dirty the document.
func (d *Document) SetActiveGlyphIndex(i int) error {
	if _, err := d.glyph(i); err != nil {
		return err
	}
	d.active = i
	return nil
}

// ModifyGlyph applies change to glyph i in direction t and updates the
// glyph and document dirty state. On error nothing changes.
func (d *Document) ModifyGlyph(i int, change font.BatchPixelChange, t font.ChangeType) error {
	g, err := d.glyph(i)
	if err != nil {
		return err
	}
	was := g.IsModified()
	if err := g.Apply(change, t); err != nil {
		return fmt.Errorf("modify glyph %d: %w", i, err)
	}
	d.trackGlyph(was, g.IsModified())
	log.Debug(log.CatDocument, "Modified glyph", "index", i, "pixels", change.Len(), "type", t, "modified", g.IsModified())
	return nil
}

// ResetGlyph restores glyph i to its original bitmap. It is ModifyGlyph
// with the full reset diff, so it is symmetric with an edit.
func (d *Document) ResetGlyph(i int) error {
	g, err := d.glyph(i)
	if err != nil {
		return err
	}
	return d.ModifyGlyph(i, g.ResetChange(), font.Normal)
}

// ResetGlyphChange returns the change that ResetGlyph(i) would apply.
func (d *Document) ResetGlyphChange(i int) (font.BatchPixelChange, error) {
	g, err := d.glyph(i)
	if err != nil {
		return font.BatchPixelChange{}, err
	}
	return g.ResetChange(), nil
}

// ResetFace restores every glyph and clears the undo log. This cannot be
// undone; the caller confirms it with the user first.
func (d *Document) ResetFace() error {
	if d.face == nil {
		return ErrNoFace
	}
	if d.face.IsModified() {
		d.unsavedReset = true
	}
	d.face.Reset()
	d.modifiedGlyphs = 0
	d.history.Clear()
	log.Info(log.CatDocument, "Reset face", "name", d.face.Name())
	return nil
}

func (d *Document) trackGlyph(was, is bool) {
	switch {
	case !was && is:
		d.modifiedGlyphs++
	case was && !is:
		d.modifiedGlyphs--
	}
}

// IsModified reports whether any glyph differs from its original.
func (d *Document) IsModified() bool { return d.modifiedGlyphs > 0 }

// IsGlyphModified reports whether glyph i differs from its original.
// Invalid indices report false.
func (d *Document) IsGlyphModified(i int) bool {
	g, err := d.glyph(i)
	return err == nil && g.IsModified()
}

// IsActiveGlyphModified reports whether the selected glyph is modified.
func (d *Document) IsActiveGlyphModified() bool {
	return d.active != noActiveGlyph && d.IsGlyphModified(d.active)
}

// IsModifiedSinceSave reports whether the content differs from what was
// last saved or opened.
func (d *Document) IsModifiedSinceSave() bool {
	if d.face == nil {
		return false
	}
	return d.unsavedReset || !d.history.IsClean()
}

// MarkSaved records that the document now lives at path with its current
// content.
func (d *Document) MarkSaved(path string) {
	d.path = path
	d.unsavedReset = false
	d.history.MarkClean()
}
