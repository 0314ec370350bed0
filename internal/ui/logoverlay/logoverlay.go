// Package logoverlay shows recent debug log entries on top of the editor.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/ui/overlay"
	"github.com/fontedit/fontedit/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
	maxEntries        = 1000
)

var levels = []struct {
	key   string
	label string
	level log.Level
}{
	{"d", "Debug", log.LevelDebug},
	{"i", "Info", log.LevelInfo},
	{"w", "Warn", log.LevelWarn},
	{"e", "Error", log.LevelError},
}

// Model is the log viewer state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden viewer showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Visible reports whether the viewer is shown.
func (m Model) Visible() bool { return m.visible }

// MinLevel returns the level filter.
func (m Model) MinLevel() log.Level { return m.minLevel }

// Toggle shows or hides the viewer, reloading entries when shown.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m = m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// SetSize updates the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.refresh()
}

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) Model {
	km, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m
	}
	k := km.String()
	for _, l := range levels {
		if k == l.key {
			m.minLevel = l.level
			return m.refresh()
		}
	}
	switch k {
	case "c":
		log.ClearRecent()
		return m.refresh()
	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	case "ctrl+x", "esc":
		m.visible = false
	}
	return m
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) refresh() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}
	width := m.boxWidth() - 2
	// header, footer and borders take 6 lines
	height := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(width, height)
	m.viewport.SetContent(m.content(width))
	return m
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range log.Recent(maxEntries) {
		level, ok := entryLevel(entry)
		if ok && level < m.minLevel {
			continue
		}
		lines = append(lines, colorize(entry, level, width))
	}
	if len(lines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

// entryLevel parses the level tag written by the log package.
func entryLevel(entry string) (log.Level, bool) {
	for _, l := range levels {
		if strings.Contains(entry, "["+l.level.String()+"]") {
			return l.level, true
		}
	}
	return log.LevelDebug, false
}

func colorize(entry string, level log.Level, width int) string {
	entry = strings.TrimSuffix(entry, "\n")
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-3, "...")
	}
	color := styles.TextMutedColor
	switch level {
	case log.LevelError:
		color = styles.StatusErrorColor
	case log.LevelWarn:
		color = styles.StatusWarningColor
	case log.LevelInfo:
		color = styles.ToastBorderInfoColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

// View renders the viewer box.
func (m Model) View() string {
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs")

	body := strings.Join([]string{title, divider, m.viewport.View(), divider, m.hint()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(body)
}

func (m Model) hint() string {
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	hints := []string{muted.Render("[c] Clear")}
	for _, l := range levels {
		style := muted
		if l.level == m.minLevel {
			style = active
		}
		hints = append(hints, style.Render("["+l.key+"] "+l.label))
	}
	return strings.Join(hints, "  ")
}

// Overlay renders the viewer centered on bg when visible.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
