package editor

import (
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/uistate"
)

// EventType identifies the kind of session observation.
type EventType string

const (
	// EventFaceLoaded is emitted after a font import or document open.
	EventFaceLoaded EventType = "face_loaded"
	// EventActiveGlyphChanged is emitted when the selection changes.
	EventActiveGlyphChanged EventType = "active_glyph_changed"
	// EventGlyphChanged is emitted when the pixels of the active glyph change.
	EventGlyphChanged EventType = "glyph_changed"
	// EventUIStateChanged is emitted when the set of enabled actions changes.
	EventUIStateChanged EventType = "ui_state_changed"
	// EventDocumentError is emitted when a collaborator fails.
	EventDocumentError EventType = "document_error"
	// EventDocumentClosed is emitted after CloseDocument.
	EventDocumentClosed EventType = "document_closed"
	// EventDocumentTitleChanged is emitted when Title changes.
	EventDocumentTitleChanged EventType = "document_title_changed"
	// EventSourceCodeChanged is emitted after SourceCode renders.
	EventSourceCodeChanged EventType = "source_code_changed"
	// EventDocumentChangedOnDisk is emitted when another process changes or
	// removes the backing file.
	EventDocumentChangedOnDisk EventType = "document_changed_on_disk"
)

// Event is a session observation. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// Info is set for EventFaceLoaded.
	Info font.Info
	// GlyphIndex and Glyph (a copy) are set for EventActiveGlyphChanged and
	// EventGlyphChanged.
	GlyphIndex int
	Glyph      *font.Glyph
	// State is set for EventUIStateChanged.
	State uistate.State
	// Title is set for EventDocumentTitleChanged.
	Title string
	// Source is set for EventSourceCodeChanged.
	Source string
	// Path is set for EventDocumentChangedOnDisk; Removed tells whether the
	// file is gone.
	Path    string
	Removed bool
	// Err is set for EventDocumentError.
	Err error
}
