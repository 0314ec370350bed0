package uistate

import "strings"

// State is a bitset indexed by InterfaceAction.
type State uint16

// Has reports whether action is enabled.
func (s State) Has(action InterfaceAction) bool {
	return s&bit(action) != 0
}

// With returns s with action enabled.
func (s State) With(action InterfaceAction) State {
	return s | bit(action)
}

// Actions lists the enabled actions in declaration order.
func (s State) Actions() []InterfaceAction {
	var out []InterfaceAction
	for _, a := range Actions() {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s State) String() string {
	actions := s.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

func bit(action InterfaceAction) State {
	return 1 << uint(action)
}

// Shape is the subset of editor state enablement depends on.
type Shape struct {
	HasFace             bool
	HasActiveGlyph      bool
	DocumentModified    bool
	ActiveGlyphModified bool
	CanUndo             bool
	CanRedo             bool
	HasClipboard        bool
}

// Derive computes the enabled actions for shape.
func Derive(shape Shape) State {
	s := State(0).With(ImportFont)

	if shape.HasFace {
		s = s.With(AddGlyph).With(Print).With(Export).With(TabCode)
	}
	if shape.DocumentModified {
		s = s.With(Save).With(ResetFont)
	}
	if shape.HasActiveGlyph {
		s = s.With(Copy)
		if shape.HasClipboard {
			s = s.With(Paste)
		}
		if shape.ActiveGlyphModified {
			s = s.With(ResetGlyph)
		}
	}
	if shape.CanUndo {
		s = s.With(Undo)
	}
	if shape.CanRedo {
		s = s.With(Redo)
	}
	return s
}
