// Package help contains the keybinding overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/fontedit/fontedit/internal/keys"
	"github.com/fontedit/fontedit/internal/ui/overlay"
	"github.com/fontedit/fontedit/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Section is a titled column of bindings.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// EditorSections returns the sections of the editor view.
func EditorSections() []Section {
	titles := []string{"Navigation", "Editing", "Document", "General"}
	groups := keys.Editor.FullHelp()
	out := make([]Section, len(groups))
	for i, g := range groups {
		out[i] = Section{Title: titles[i], Bindings: g}
	}
	return out
}

// CodeSections returns the sections of the source code view.
func CodeSections() []Section {
	groups := keys.Code.FullHelp()
	return []Section{
		{Title: "Output", Bindings: groups[0]},
		{Title: "Source", Bindings: groups[1]},
	}
}

// Model holds the help view state.
type Model struct {
	sections []Section
	width    int
	height   int
}

// New creates a help view for sections.
func New(sections []Section) Model {
	return Model{sections: sections}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered in the viewport.
func (m Model) View() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.box())
}

// Overlay renders the help box centered on background.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.box(), background)
}

func (m Model) box() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)
	cols := make([]string, len(m.sections))
	for i, s := range m.sections {
		var col strings.Builder
		col.WriteString(sectionStyle.Render(s.Title))
		col.WriteString("\n")
		for _, b := range s.Bindings {
			h := b.Help()
			col.WriteString(keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n")
		}
		cols[i] = col.String()
		if i < len(m.sections)-1 {
			cols[i] = columnStyle.Render(cols[i])
		}
	}
	columns := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	boxWidth := lipgloss.Width(columns) + 4

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(dividerStyle.Render(strings.Repeat("─", boxWidth)))
	content.WriteString("\n")
	content.WriteString(contentStyle.Render(columns + "\n" + footerStyle.Render("Press ? or Esc to close")))

	return boxStyle.Width(boxWidth).Render(content.String())
}
