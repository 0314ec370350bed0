package editor

import (
	"github.com/fontedit/fontedit/internal/document"
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/history"
)

// Command labels, shown in the undo/redo menu.
const (
	LabelEditGlyph   = "Edit Glyph"
	LabelPasteGlyph  = "Paste Glyph"
	LabelResetGlyph  = "Reset Glyph"
	LabelSwitchGlyph = "Switch Active Glyph"
)

// glyphCommand applies a pixel change to one glyph. Undo applies it in
// reverse. It never touches the shell; the session publishes what changed.
type glyphCommand struct {
	doc    *document.Document
	index  int
	change font.BatchPixelChange
	label  string
}

var _ history.Command = (*glyphCommand)(nil)

func (c *glyphCommand) Do() error {
	return c.doc.ModifyGlyph(c.index, c.change, font.Normal)
}

func (c *glyphCommand) Undo() error {
	return c.doc.ModifyGlyph(c.index, c.change, font.Reverse)
}

func (c *glyphCommand) Label() string { return c.label }

// switchCommand moves the selection between two glyphs.
type switchCommand struct {
	doc      *document.Document
	from, to int
}

var _ history.Navigation = (*switchCommand)(nil)

func (c *switchCommand) Do() error   { return c.doc.SetActiveGlyphIndex(c.to) }
func (c *switchCommand) Undo() error { return c.doc.SetActiveGlyphIndex(c.from) }

func (c *switchCommand) Label() string { return LabelSwitchGlyph }

func (c *switchCommand) IsNavigation() bool { return true }
