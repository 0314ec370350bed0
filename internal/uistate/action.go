// Package uistate derives which editor actions are enabled from the shape of
// the current document.
package uistate

import "fmt"

// InterfaceAction is a user-triggerable editor action.
type InterfaceAction int

const (
	ImportFont InterfaceAction = iota
	AddGlyph
	Save
	Copy
	Paste
	Undo
	Redo
	ResetGlyph
	ResetFont
	Print
	Export
	TabCode

	ActionCount int = iota
)

var actionNames = [ActionCount]string{
	"ImportFont",
	"AddGlyph",
	"Save",
	"Copy",
	"Paste",
	"Undo",
	"Redo",
	"ResetGlyph",
	"ResetFont",
	"Print",
	"Export",
	"TabCode",
}

func (a InterfaceAction) String() string {
	if a < 0 || int(a) >= ActionCount {
		return fmt.Sprintf("InterfaceAction(%d)", int(a))
	}
	return actionNames[a]
}

// Actions returns every InterfaceAction in declaration order.
func Actions() []InterfaceAction {
	out := make([]InterfaceAction, ActionCount)
	for i := range out {
		out[i] = InterfaceAction(i)
	}
	return out
}

// UserAction is a lifecycle milestone reported by the editor.
type UserAction int

const (
	Idle UserAction = iota
	LoadedFace
	LoadedGlyph
	EditedGlyph
)

func (u UserAction) String() string {
	switch u {
	case Idle:
		return "Idle"
	case LoadedFace:
		return "LoadedFace"
	case LoadedGlyph:
		return "LoadedGlyph"
	case EditedGlyph:
		return "EditedGlyph"
	default:
		return fmt.Sprintf("UserAction(%d)", int(u))
	}
}

// InputEvent is either an InterfaceAction or a UserAction. Events only
// trigger a recompute; they carry no data.
type InputEvent interface {
	fmt.Stringer
	isInputEvent()
}

func (InterfaceAction) isInputEvent() {}
func (UserAction) isInputEvent()      {}
