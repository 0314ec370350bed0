// Package store defines document persistence.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fontedit/fontedit/internal/document"
)

// Extension is the file extension of saved documents.
const Extension = ".fontedit"

// ErrUnsupportedVersion is returned for documents written by a newer
// schema.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// ErrNotDocument is returned for files that are not fontedit documents.
var ErrNotDocument = errors.New("not a fontedit document")

// Store loads and saves documents.
type Store interface {
	// Load reads the document at path. The returned document has path as
	// its backing path and is clean.
	Load(ctx context.Context, path string) (*document.Document, error)
	// Save writes a snapshot of doc to path, replacing any existing file
	// atomically. It does not mark doc as saved.
	Save(ctx context.Context, doc *document.Document, path string) error
	// Stat reads the header of the document at path.
	Stat(ctx context.Context, path string) (Header, error)
}

// Header describes a saved document without loading its glyphs.
type Header struct {
	GUID        string
	Name        string
	GlyphCount  int
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ActiveGlyph *int
}

func (h Header) String() string {
	return fmt.Sprintf("%s (%d glyphs, saved %s)", h.Name, h.GlyphCount, h.UpdatedAt.Format(time.DateTime))
}
