package uistate

import "github.com/fontedit/fontedit/internal/log"

// ShapeFunc reports the current editor shape.
type ShapeFunc func() Shape

// Machine recomputes State on every event and reports changes.
type Machine struct {
	shape ShapeFunc
	state State
}

// NewMachine creates a machine reading shape on each event. The initial
// state only enables ImportFont.
func NewMachine(shape ShapeFunc) *Machine {
	return &Machine{
		shape: shape,
		state: State(0).With(ImportFont),
	}
}

// State returns the last computed state.
func (m *Machine) State() State {
	return m.state
}

// Register recomputes the state for event. changed is false when the new
// state equals the previous one.
func (m *Machine) Register(event InputEvent) (State, bool) {
	next := Derive(m.shape())
	if next == m.state {
		return m.state, false
	}
	log.Debug(log.CatUI, "UI state changed", "event", event, "from", m.state, "to", next)
	m.state = next
	return next, true
}
