// Package glyphgrid is the pixel editor for one glyph. Keyboard edits emit
// ToggleMsg; a mouse stroke is collected locally and emitted as one
// StrokeMsg when the button is released.
package glyphgrid

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/keys"
	"github.com/fontedit/fontedit/internal/ui/styles"
)

// Cell glyphs, two columns per pixel so cells are roughly square.
const (
	cellOn  = "██"
	cellOff = "··"
	cellCur = "░░"
)

var instances atomic.Int64

// ToggleMsg asks for the pixel at (X, Y) to be flipped.
type ToggleMsg struct {
	X, Y int
}

// StrokeMsg carries the glyph bitmap after a mouse stroke.
type StrokeMsg struct {
	Grid *font.PixelGrid
}

// Model holds the grid state.
type Model struct {
	prefix  string
	glyph   *font.Glyph
	margins font.Margins
	x, y    int
	focused bool

	stroke      *font.PixelGrid
	strokeValue bool
}

// New creates an empty grid.
func New() Model {
	return Model{prefix: fmt.Sprintf("glyphgrid%d-", instances.Add(1))}
}

// SetGlyph replaces the displayed glyph and clamps the cursor into it.
// A nil glyph clears the grid.
func (m Model) SetGlyph(g *font.Glyph, margins font.Margins) Model {
	m.glyph = g
	m.margins = margins
	m.stroke = nil
	if g != nil {
		m.x = clamp(m.x, g.Width())
		m.y = clamp(m.y, g.Height())
	}
	return m
}

// Glyph returns the displayed glyph.
func (m Model) Glyph() *font.Glyph { return m.glyph }

// Focus sets whether the grid receives key input.
func (m Model) Focus(focused bool) Model {
	m.focused = focused
	return m
}

// Focused reports whether the grid receives key input.
func (m Model) Focused() bool { return m.focused }

// Cursor returns the cursor position.
func (m Model) Cursor() (x, y int) { return m.x, m.y }

// Size returns the rendered width and height in cells.
func (m Model) Size() (width, height int) {
	if m.glyph == nil {
		return 0, 0
	}
	return m.glyph.Width() * 2, m.glyph.Height()
}

func (m Model) zoneID(x, y int) string {
	return fmt.Sprintf("%spx-%d-%d", m.prefix, x, y)
}

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.glyph == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Editor.Up):
			m.y = clamp(m.y-1, m.glyph.Height())
		case key.Matches(msg, keys.Editor.Down):
			m.y = clamp(m.y+1, m.glyph.Height())
		case key.Matches(msg, keys.Editor.Left):
			m.x = clamp(m.x-1, m.glyph.Width())
		case key.Matches(msg, keys.Editor.Right):
			m.x = clamp(m.x+1, m.glyph.Width())
		case key.Matches(msg, keys.Editor.Toggle):
			x, y := m.x, m.y
			return m, func() tea.Msg { return ToggleMsg{X: x, Y: y} }
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action == tea.MouseActionRelease {
		if m.stroke == nil {
			return m, nil
		}
		grid := m.stroke
		m.stroke = nil
		return m, func() tea.Msg { return StrokeMsg{Grid: grid} }
	}
	if msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	x, y, ok := m.hit(msg)
	if !ok {
		return m, nil
	}
	m.x, m.y = x, y
	switch msg.Action {
	case tea.MouseActionPress:
		m.stroke = m.glyph.Pixels()
		m.strokeValue = !m.stroke.At(x, y)
		m.stroke.Set(x, y, m.strokeValue)
	case tea.MouseActionMotion:
		if m.stroke != nil {
			m.stroke.Set(x, y, m.strokeValue)
		}
	}
	return m, nil
}

// hit finds the pixel under the mouse.
func (m Model) hit(msg tea.MouseMsg) (x, y int, ok bool) {
	for y := 0; y < m.glyph.Height(); y++ {
		for x := 0; x < m.glyph.Width(); x++ {
			if z := zone.Get(m.zoneID(x, y)); z != nil && z.InBounds(msg) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// View renders the grid. Zones are registered by the caller's zone.Scan.
func (m Model) View() string {
	if m.glyph == nil {
		return styles.HintStyle.Render("No glyph selected")
	}

	at := m.glyph.At
	if m.stroke != nil {
		at = m.stroke.At
	}

	var b strings.Builder
	h, w := m.glyph.Height(), m.glyph.Width()
	for y := range h {
		margin := y < m.margins.Top || y >= h-m.margins.Bottom
		for x := range w {
			b.WriteString(zone.Mark(m.zoneID(x, y), m.cell(x, y, at(x, y), margin)))
		}
		if y < h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) cell(x, y int, on, margin bool) string {
	if m.focused && x == m.x && y == m.y {
		if on {
			return styles.CursorStyle.Render(cellOn)
		}
		return styles.CursorStyle.Render(cellCur)
	}
	switch {
	case on:
		return styles.PixelOnStyle.Render(cellOn)
	case margin:
		return styles.PixelMarginStyle.Render(cellOff)
	default:
		return styles.PixelOffStyle.Render(cellOff)
	}
}

func clamp(v, n int) int {
	return max(0, min(v, n-1))
}
