package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned by operations that need a loaded face.
	ErrNoDocument = errors.New("no document loaded")
	// ErrNoActiveGlyph is returned by glyph operations without a selection.
	ErrNoActiveGlyph = errors.New("no active glyph")
	// ErrNoPath is returned when saving a document that was never saved.
	ErrNoPath = errors.New("document has no file path")
	// ErrEmptyClipboard is returned by Paste when there is nothing to paste.
	ErrEmptyClipboard = errors.New("clipboard holds no glyph")
)

// ImportError wraps a font importer failure.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string { return fmt.Sprintf("import font %s: %v", e.Path, e.Err) }
func (e *ImportError) Unwrap() error { return e.Err }

// LoadError wraps a document store read failure.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SaveError wraps a document store write failure.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %s: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// ExportError wraps a source code render or write failure. Path is empty
// when only rendering failed.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("render source: %v", e.Err)
	}
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}
func (e *ExportError) Unwrap() error { return e.Err }

// ClipboardError wraps a clipboard failure.
type ClipboardError struct {
	Op  string
	Err error
}

func (e *ClipboardError) Error() string { return fmt.Sprintf("clipboard %s: %v", e.Op, e.Err) }
func (e *ClipboardError) Unwrap() error { return e.Err }

// reportedError marks an error the session already published as
// EventDocumentError.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already published as
// EventDocumentError, so a shell subscribed to the broker has seen it.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
