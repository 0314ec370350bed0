// Package glyphstrip lists the glyphs of a face as a wrapped grid of cells
// and reports the one the user picks.
package glyphstrip

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/keys"
	"github.com/fontedit/fontedit/internal/ui/styles"
)

// cellWidth is the rendered width of one glyph cell. Cell text is at most
// two runes plus the modified and active markers.
const cellWidth = 5

var instances atomic.Int64

// SelectMsg asks for glyph Index to become the active glyph.
type SelectMsg struct {
	Index int
}

// Item is one glyph in the strip.
type Item struct {
	Text     string
	Modified bool
}

// ItemFor builds the strip item for g.
func ItemFor(g *font.Glyph) Item {
	return Item{Text: cellText(g), Modified: g.IsModified()}
}

func cellText(g *font.Glyph) string {
	if c := g.Code(); c != font.NoCode && unicode.IsGraphic(c) && !unicode.IsSpace(c) {
		return string(c)
	}
	if c := g.Code(); c == ' ' {
		return "␠"
	}
	name := []rune(g.Name())
	return string(name[:min(len(name), 2)])
}

// Model holds the strip state.
type Model struct {
	prefix    string
	items     []Item
	highlight int
	active    int
	focused   bool
	width     int
	height    int
}

// New creates an empty strip.
func New() Model {
	return Model{prefix: fmt.Sprintf("glyphstrip%d-", instances.Add(1)), active: -1}
}

// SetItems replaces the glyph list. The highlight is clamped.
func (m Model) SetItems(items []Item) Model {
	m.items = items
	m.highlight = max(0, min(m.highlight, len(items)-1))
	if m.active >= len(items) {
		m.active = -1
	}
	return m
}

// SetItem updates one entry, typically after the glyph changed.
func (m Model) SetItem(i int, item Item) Model {
	if i < 0 || i >= len(m.items) {
		return m
	}
	items := append([]Item(nil), m.items...)
	items[i] = item
	m.items = items
	return m
}

// SetActive marks the active glyph and moves the highlight onto it.
// A negative index clears the mark.
func (m Model) SetActive(i int) Model {
	m.active = i
	if i >= 0 && i < len(m.items) {
		m.highlight = i
	}
	return m
}

// Highlight returns the highlighted index.
func (m Model) Highlight() int { return m.highlight }

// Len returns the number of glyphs.
func (m Model) Len() int { return len(m.items) }

// Focus sets whether the strip receives key input.
func (m Model) Focus(focused bool) Model {
	m.focused = focused
	return m
}

// Focused reports whether the strip receives key input.
func (m Model) Focused() bool { return m.focused }

// SetSize sets the area available to the strip.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

func (m Model) perRow() int {
	return max(1, m.width/cellWidth)
}

func (m Model) zoneID(i int) string {
	return fmt.Sprintf("%s%d", m.prefix, i)
}

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Editor.Left):
			m.move(-1)
		case key.Matches(msg, keys.Editor.Right):
			m.move(1)
		case key.Matches(msg, keys.Editor.Up):
			m.move(-m.perRow())
		case key.Matches(msg, keys.Editor.Down):
			m.move(m.perRow())
		case key.Matches(msg, keys.Editor.Toggle):
			return m, selectCmd(m.highlight)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for i := range m.items {
			if z := zone.Get(m.zoneID(i)); z != nil && z.InBounds(msg) {
				m.highlight = i
				return m, selectCmd(i)
			}
		}
	}
	return m, nil
}

func (m *Model) move(step int) {
	m.highlight = max(0, min(m.highlight+step, len(m.items)-1))
}

func selectCmd(i int) tea.Cmd {
	return func() tea.Msg { return SelectMsg{Index: i} }
}

// View renders the rows around the highlight that fit the height.
func (m Model) View() string {
	if len(m.items) == 0 {
		return styles.HintStyle.Render("No font loaded")
	}

	perRow := m.perRow()
	rows := (len(m.items) + perRow - 1) / perRow
	first, last := 0, rows
	if m.height > 0 && rows > m.height {
		first = max(0, min(m.highlight/perRow-m.height/2, rows-m.height))
		last = first + m.height
	}

	lines := make([]string, 0, last-first)
	for r := first; r < last; r++ {
		var row strings.Builder
		for i := r * perRow; i < min((r+1)*perRow, len(m.items)); i++ {
			row.WriteString(zone.Mark(m.zoneID(i), m.cell(i)))
		}
		lines = append(lines, row.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) cell(i int) string {
	item := m.items[i]
	text := item.Text
	if item.Modified {
		text += "*"
	}
	if i == m.active {
		text = "[" + text + "]"
	}
	style := styles.GlyphStyle
	switch {
	case m.focused && i == m.highlight:
		style = styles.GlyphSelectedStyle
	case item.Modified:
		style = styles.GlyphModifiedStyle
	}
	return style.UnsetPadding().Width(cellWidth).Align(lipgloss.Center).Render(text)
}
