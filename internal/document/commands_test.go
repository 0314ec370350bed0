package document

import (
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/history"
)

func noopCommand() history.Command {
	return history.New("noop", func() error { return nil }, func() error { return nil })
}

func modifyCommand(d *Document, index int, change font.BatchPixelChange) history.Command {
	return history.New("Edit Glyph",
		func() error { return d.ModifyGlyph(index, change, font.Normal) },
		func() error { return d.ModifyGlyph(index, change, font.Reverse) })
}
