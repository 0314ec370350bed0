// Package actionbar renders the editor actions with their keys, dimming the
// ones the current UI state disables.
package actionbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fontedit/fontedit/internal/keys"
	"github.com/fontedit/fontedit/internal/ui/styles"
	"github.com/fontedit/fontedit/internal/uistate"
)

// entry pairs an action with the binding that triggers it.
type entry struct {
	action  uistate.InterfaceAction
	label   string
	binding key.Binding
}

// AddGlyph and Print have no terminal front end and are not shown.
var entries = []entry{
	{uistate.ImportFont, "Open", keys.Editor.Open},
	{uistate.Save, "Save", keys.Editor.Save},
	{uistate.Copy, "Copy", keys.Editor.Copy},
	{uistate.Paste, "Paste", keys.Editor.Paste},
	{uistate.Undo, "Undo", keys.Editor.Undo},
	{uistate.Redo, "Redo", keys.Editor.Redo},
	{uistate.ResetGlyph, "Reset Glyph", keys.Editor.ResetGlyph},
	{uistate.ResetFont, "Reset Font", keys.Editor.ResetFont},
	{uistate.Export, "Export", keys.Editor.Export},
	{uistate.TabCode, "Code", keys.Editor.CodeView},
}

// Binding returns the key binding of action and whether it has one.
func Binding(action uistate.InterfaceAction) (key.Binding, bool) {
	for _, e := range entries {
		if e.action == action {
			return e.binding, true
		}
	}
	return key.Binding{}, false
}

// Lookup finds the action msg triggers. Keys that are not action keys
// report ok false.
func Lookup(msg tea.KeyMsg) (action uistate.InterfaceAction, ok bool) {
	for _, e := range entries {
		if key.Matches(msg, e.binding) {
			return e.action, true
		}
	}
	return 0, false
}

// View renders one line of actions, cut at width.
func View(state uistate.State, width int) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		text := e.binding.Help().Key + " " + e.label
		style := styles.ActionDisabledStyle
		if state.Has(e.action) {
			style = styles.ActionEnabledStyle
		}
		parts = append(parts, style.Render(text))
	}
	line := strings.Join(parts, styles.HintStyle.Render(" │ "))
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
