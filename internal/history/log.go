package history

import (
	"fmt"

	"github.com/fontedit/fontedit/internal/log"
)

// noCleanState means the saved state was discarded from the redo stack and
// can no longer be reached.
const noCleanState = -1

// Log manages a pair of undo/redo stacks. Pushing a command clears the redo
// stack: history is a single timeline, not a tree.
//
// The log also remembers which undo depth corresponds to the last save
// (MarkClean), so callers can tell whether undo/redo brought the document
// back to its saved content.
type Log struct {
	undo  []Command // most recent last
	redo  []Command // most recently undone last
	clean int       // undo depth at the last MarkClean, or noCleanState
}

// NewLog creates an empty log in the clean state.
func NewLog() *Log {
	return &Log{}
}

// Push executes cmd and records it. When Do fails nothing is recorded and
// the redo stack is kept.
func (l *Log) Push(cmd Command) error {
	if err := cmd.Do(); err != nil {
		log.ErrorErr(log.CatHistory, "Command failed", err, "label", cmd.Label())
		return fmt.Errorf("%s: %w", cmd.Label(), err)
	}
	if l.clean > len(l.undo) {
		l.clean = noCleanState
	}
	l.undo = append(l.undo, cmd)
	clear(l.redo)
	l.redo = l.redo[:0]
	log.Debug(log.CatHistory, "Pushed command", "label", cmd.Label(), "depth", len(l.undo))
	return nil
}

// Undo reverses the most recent command. It is a no-op on an empty stack.
// If the command's Undo fails the stacks are left as they were.
func (l *Log) Undo() error {
	if len(l.undo) == 0 {
		return nil
	}
	cmd := l.undo[len(l.undo)-1]
	if err := cmd.Undo(); err != nil {
		log.ErrorErr(log.CatHistory, "Undo failed", err, "label", cmd.Label())
		return fmt.Errorf("undo %s: %w", cmd.Label(), err)
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, cmd)
	log.Debug(log.CatHistory, "Undid command", "label", cmd.Label(), "depth", len(l.undo))
	return nil
}

// Redo re-applies the most recently undone command. It is a no-op when
// there is nothing to redo.
func (l *Log) Redo() error {
	if len(l.redo) == 0 {
		return nil
	}
	cmd := l.redo[len(l.redo)-1]
	if err := cmd.Do(); err != nil {
		log.ErrorErr(log.CatHistory, "Redo failed", err, "label", cmd.Label())
		return fmt.Errorf("redo %s: %w", cmd.Label(), err)
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, cmd)
	log.Debug(log.CatHistory, "Redid command", "label", cmd.Label(), "depth", len(l.undo))
	return nil
}

// Clear empties both stacks without running any command. The empty state
// counts as clean.
func (l *Log) Clear() {
	clear(l.undo)
	clear(l.redo)
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
	l.clean = 0
}

// CanUndo reports whether the undo stack is non-empty.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoDepth returns the number of commands that can be undone.
func (l *Log) UndoDepth() int { return len(l.undo) }

// RedoDepth returns the number of commands that can be redone.
func (l *Log) RedoDepth() int { return len(l.redo) }

// UndoLabel returns the label of the command Undo would reverse.
func (l *Log) UndoLabel() string {
	if len(l.undo) == 0 {
		return ""
	}
	return l.undo[len(l.undo)-1].Label()
}

// RedoLabel returns the label of the command Redo would re-apply.
func (l *Log) RedoLabel() string {
	if len(l.redo) == 0 {
		return ""
	}
	return l.redo[len(l.redo)-1].Label()
}

// MarkClean records the current position as the saved state.
func (l *Log) MarkClean() { l.clean = len(l.undo) }

// IsClean reports whether only Navigation commands separate the current
// position from the one recorded by MarkClean.
func (l *Log) IsClean() bool {
	if l.clean == noCleanState {
		return false
	}
	lo, hi := min(l.clean, len(l.undo)), max(l.clean, len(l.undo))
	for i := lo; i < hi; i++ {
		if !isNavigation(l.at(i)) {
			return false
		}
	}
	return true
}

// at returns the command at timeline position i: the undo stack from the
// bottom, then the redo stack from the top.
func (l *Log) at(i int) Command {
	if i < len(l.undo) {
		return l.undo[i]
	}
	return l.redo[len(l.redo)-1-(i-len(l.undo))]
}
