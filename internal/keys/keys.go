// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// EditorKeyMap holds the bindings of the glyph editor view.
type EditorKeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	NextGlyph key.Binding
	PrevGlyph key.Binding
	FocusNext key.Binding

	// Editing
	Toggle     key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Copy       key.Binding
	Paste      key.Binding
	ResetGlyph key.Binding
	ResetFont  key.Binding

	// Document
	Open     key.Binding
	Save     key.Binding
	Export   key.Binding
	Reload   key.Binding
	CodeView key.Binding

	// General
	Help key.Binding
	Logs key.Binding
	Quit key.Binding
}

// CodeKeyMap holds the bindings of the source code view.
type CodeKeyMap struct {
	CycleFormat   key.Binding
	ToggleInvert  key.Binding
	ToggleMSB     key.Binding
	ToggleSpacing key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	Export        key.Binding
	Close         key.Binding
}

// ConfirmKeyMap holds the bindings of yes/no prompts.
type ConfirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// Editor is the editor view keymap.
var Editor = EditorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "move left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "move right"),
	),
	NextGlyph: key.NewBinding(
		key.WithKeys("]", "n"),
		key.WithHelp("]/n", "next glyph"),
	),
	PrevGlyph: key.NewBinding(
		key.WithKeys("[", "N"),
		key.WithHelp("[/N", "previous glyph"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),

	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle / select"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "ctrl+z"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r", "ctrl+y"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy glyph"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paste glyph"),
	),
	ResetGlyph: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset glyph"),
	),
	ResetFont: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset font"),
	),

	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open or import"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "export source"),
	),
	Reload: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "reload from disk"),
	),
	CodeView: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "source code"),
	),

	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "debug log"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Code is the source code view keymap.
var Code = CodeKeyMap{
	CycleFormat: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "cycle format"),
	),
	ToggleInvert: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "invert bits"),
	),
	ToggleMSB: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "msb first"),
	),
	ToggleSpacing: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "line spacing"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "export source"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "c"),
		key.WithHelp("esc", "back to editor"),
	),
}

// Confirm is the yes/no prompt keymap.
var Confirm = ConfirmKeyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Undo, k.CodeView, k.Save, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextGlyph, k.PrevGlyph, k.FocusNext}, // Navigation
		{k.Toggle, k.Undo, k.Redo, k.Copy, k.Paste, k.ResetGlyph, k.ResetFont}, // Editing
		{k.Open, k.Save, k.Export, k.Reload, k.CodeView},                       // Document
		{k.Help, k.Logs, k.Quit},                                               // General
	}
}

// ShortHelp returns keybindings for the short help view.
func (k CodeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleFormat, k.ToggleInvert, k.ToggleMSB, k.ToggleSpacing, k.Export, k.Close}
}

// FullHelp returns keybindings for the full help view.
func (k CodeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CycleFormat, k.ToggleInvert, k.ToggleMSB, k.ToggleSpacing},
		{k.ScrollUp, k.ScrollDown, k.Export, k.Close},
	}
}
