// Package history implements the linear undo/redo log.
//
// The log sequences Do/Undo calls and never looks inside a command, so
// anything reversible can be recorded: pixel edits, glyph resets, or a switch
// of the active glyph.
package history

// Command is a reversible action. Do applies it, Undo reverses it. Both must
// leave state untouched when they return an error.
type Command interface {
	Do() error
	Undo() error
	// Label is shown to the user, e.g. "Undo Edit Glyph".
	Label() string
}

type funcCommand struct {
	label string
	do    func() error
	undo  func() error
}

func (c *funcCommand) Do() error     { return c.do() }
func (c *funcCommand) Undo() error   { return c.undo() }
func (c *funcCommand) Label() string { return c.label }

// New wraps a pair of closures as a Command. Closures must capture values or
// stable references only.
func New(label string, do, undo func() error) Command {
	return &funcCommand{label: label, do: do, undo: undo}
}

// Navigation is implemented by commands that only move the selection. They
// are undone and redone like any other command but never make the log
// dirty.
type Navigation interface {
	Command
	IsNavigation() bool
}

func isNavigation(cmd Command) bool {
	n, ok := cmd.(Navigation)
	return ok && n.IsNavigation()
}
