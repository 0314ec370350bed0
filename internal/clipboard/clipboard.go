// Package clipboard holds copied glyph bitmaps between edits.
package clipboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/fontedit/fontedit/internal/font"
)

// Clipboard stores a single glyph bitmap.
type Clipboard interface {
	// Copy stores the glyph's current bitmap.
	Copy(g *font.Glyph) error
	// Paste returns the stored bitmap. ok is false when nothing was copied.
	Paste() (grid *font.PixelGrid, ok bool, err error)
	// HasPayload reports whether Paste would return a bitmap.
	HasPayload() bool
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	grid *font.PixelGrid
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Copy(g *font.Glyph) error {
	if g == nil {
		return errors.New("copy: nil glyph")
	}
	m.mu.Lock()
	m.grid = g.Pixels()
	m.mu.Unlock()
	return nil
}

func (m *Memory) Paste() (*font.PixelGrid, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grid == nil {
		return nil, false, nil
	}
	return m.grid.Clone(), true, nil
}

func (m *Memory) HasPayload() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid != nil
}

// header prefixes glyph bitmaps on the system clipboard.
const header = "fontedit-glyph "

// System shares glyphs through the OS clipboard using a text form that can
// also be pasted into a plain text editor.
type System struct {
	mu     sync.Mutex
	copied bool
	write  func(string) error
	read   func() (string, error)
}

// NewSystem returns a clipboard backed by the OS clipboard.
func NewSystem() *System {
	return &System{write: clipboard.WriteAll, read: clipboard.ReadAll}
}

// Available reports whether an OS clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}

func (s *System) Copy(g *font.Glyph) error {
	if g == nil {
		return errors.New("copy: nil glyph")
	}
	if err := s.write(Encode(g.Pixels())); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}
	s.mu.Lock()
	s.copied = true
	s.mu.Unlock()
	return nil
}

// Paste reads the OS clipboard. Text that is not a copied glyph yields ok
// false and no error.
func (s *System) Paste() (*font.PixelGrid, bool, error) {
	text, err := s.read()
	if err != nil {
		return nil, false, fmt.Errorf("read system clipboard: %w", err)
	}
	grid, err := Decode(text)
	if err != nil {
		return nil, false, nil
	}
	return grid, true, nil
}

// HasPayload reports whether a glyph was copied during this session. The
// OS clipboard is not polled.
func (s *System) HasPayload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copied
}

// Encode renders grid as "fontedit-glyph WxH" followed by its rows.
func Encode(grid *font.PixelGrid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%dx%d\n", header, grid.Width(), grid.Height())
	b.WriteString(grid.String())
	return b.String()
}

// Decode parses text produced by Encode.
func Decode(text string) (*font.PixelGrid, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	first, rest, _ := strings.Cut(text, "\n")
	if !strings.HasPrefix(first, header) {
		return nil, errors.New("clipboard does not hold a glyph")
	}
	var w, h int
	if _, err := fmt.Sscanf(strings.TrimPrefix(first, header), "%dx%d", &w, &h); err != nil {
		return nil, fmt.Errorf("parse glyph header: %w", err)
	}
	var rows []string
	if h > 0 {
		rows = strings.Split(strings.TrimRight(rest, "\n"), "\n")
	}
	if len(rows) != h {
		return nil, fmt.Errorf("glyph has %d rows, header says %d: %w", len(rows), h, font.ErrSizeMismatch)
	}
	grid, err := font.ParseGrid(rows...)
	if err != nil {
		return nil, err
	}
	if h > 0 && grid.Width() != w {
		return nil, fmt.Errorf("glyph is %d wide, header says %d: %w", grid.Width(), w, font.ErrSizeMismatch)
	}
	return grid, nil
}
