// Package modal provides the editor's confirmation dialogs and path prompts.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fontedit/fontedit/internal/keys"
	"github.com/fontedit/fontedit/internal/ui/overlay"
	"github.com/fontedit/fontedit/internal/ui/styles"
)

// ButtonVariant controls the styling of the confirm button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota // Blue (default)
	ButtonDanger                       // Red (for destructive actions)
)

// Config controls modal appearance and behavior.
type Config struct {
	// ID is echoed in SubmitMsg and CancelMsg so the owner knows which
	// question was answered.
	ID      string
	Title   string
	Message string
	// InputLabel switches the modal to prompt mode with one text field.
	InputLabel     string
	Placeholder    string
	Value          string
	ConfirmLabel   string        // default "Confirm", or "OK" in prompt mode
	ConfirmVariant ButtonVariant // Style for confirm button (default: ButtonPrimary)
	MinWidth       int           // Minimum width (0 = default 44)
}

// SubmitMsg is sent when the user confirms. Value is the text field
// contents in prompt mode.
type SubmitMsg struct {
	ID    string
	Value string
}

// CancelMsg is sent when the user cancels.
type CancelMsg struct {
	ID string
}

// Field identifies which element is focused.
type Field int

const (
	FieldInput Field = iota
	FieldConfirm
	FieldCancel
)

// Model is the modal component state.
type Model struct {
	config  Config
	input   textinput.Model
	prompt  bool
	focused Field
	width   int
	height  int
}

// New creates a modal. The text field is focused in prompt mode, the
// confirm button otherwise.
func New(cfg Config) Model {
	m := Model{config: cfg, prompt: cfg.InputLabel != "", focused: FieldConfirm}
	if m.prompt {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = cfg.Placeholder
		ti.Width = m.contentWidth() - 4
		ti.SetValue(cfg.Value)
		ti.CursorEnd()
		ti.Focus()
		m.input = ti
		m.focused = FieldInput
	}
	return m
}

// Init starts the cursor blink in prompt mode.
func (m Model) Init() tea.Cmd {
	if m.prompt {
		return textinput.Blink
	}
	return nil
}

// ID returns the configured identifier.
func (m Model) ID() string { return m.config.ID }

// Focused returns the focused element.
func (m Model) Focused() Field { return m.focused }

// Value returns the text field contents.
func (m Model) Value() string { return m.input.Value() }

// Update handles messages for the modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return m.cycle(1), nil
		case "shift+tab", "up":
			return m.cycle(-1), nil
		case "esc":
			return m, m.cancel()
		case "enter":
			if m.focused == FieldCancel {
				return m, m.cancel()
			}
			return m, m.submit()
		}

		if m.focused == FieldInput {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Confirm.Yes):
			return m, m.submit()
		case key.Matches(msg, keys.Confirm.No):
			return m, m.cancel()
		case msg.String() == "left" || msg.String() == "h":
			m.focused = FieldConfirm
		case msg.String() == "right" || msg.String() == "l":
			m.focused = FieldCancel
		}
		return m, nil
	}

	if m.prompt && m.focused == FieldInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	if m.prompt && value == "" {
		return nil
	}
	id := m.config.ID
	return func() tea.Msg { return SubmitMsg{ID: id, Value: value} }
}

func (m Model) cancel() tea.Cmd {
	id := m.config.ID
	return func() tea.Msg { return CancelMsg{ID: id} }
}

// cycle moves focus by step through the input (prompt mode only) and the
// two buttons.
func (m Model) cycle(step int) Model {
	fields := []Field{FieldConfirm, FieldCancel}
	if m.prompt {
		fields = []Field{FieldInput, FieldConfirm, FieldCancel}
	}
	at := 0
	for i, f := range fields {
		if f == m.focused {
			at = i
		}
	}
	m.focused = fields[(at+step+len(fields))%len(fields)]
	if m.prompt {
		if m.focused == FieldInput {
			m.input.Focus()
		} else {
			m.input.Blur()
		}
	}
	return m
}

func (m Model) contentWidth() int {
	width := max(m.config.MinWidth, 44)
	return max(width, lipgloss.Width(m.config.Title))
}

// View renders the modal box.
func (m Model) View() string {
	width := m.contentWidth()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	divider := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", width+2))

	var content strings.Builder
	if m.config.Message != "" {
		content.WriteString(lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Render(wordwrap.String(m.config.Message, width)))
		content.WriteString("\n\n")
	}
	if m.prompt {
		content.WriteString(styles.Pane(m.input.View(), m.config.InputLabel, width, 3, m.focused == FieldInput))
		content.WriteString("\n\n")
	}
	content.WriteString(m.renderButtons())

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.config.Title))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Padding(1, 1).Render(content.String()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width + 2).
		Render(b.String())
}

func (m Model) renderButtons() string {
	confirm := styles.PrimaryButtonStyle
	if m.config.ConfirmVariant == ButtonDanger {
		confirm = styles.DangerButtonStyle
	}
	if m.focused == FieldConfirm {
		confirm = styles.PrimaryButtonFocusedStyle
		if m.config.ConfirmVariant == ButtonDanger {
			confirm = styles.DangerButtonFocusedStyle
		}
	}
	cancel := styles.SecondaryButtonStyle
	if m.focused == FieldCancel {
		cancel = styles.SecondaryButtonFocusedStyle
	}

	label := m.config.ConfirmLabel
	if label == "" {
		label = "Confirm"
		if m.prompt {
			label = "OK"
		}
	}
	return confirm.Render(label) + "  " + cancel.Render("Cancel")
}

// Overlay renders the modal centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize updates the viewport size used by Overlay.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
