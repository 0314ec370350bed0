package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// appendCommand appends v to *state on Do and drops it on Undo.
func appendCommand(state *[]int, v int) Command {
	return New(fmt.Sprintf("append %d", v),
		func() error {
			*state = append(*state, v)
			return nil
		},
		func() error {
			*state = (*state)[:len(*state)-1]
			return nil
		})
}

func TestLog_PushExecutesImmediately(t *testing.T) {
	var state []int
	l := NewLog()

	require.NoError(t, l.Push(appendCommand(&state, 1)))

	require.Equal(t, []int{1}, state)
	require.True(t, l.CanUndo())
	require.False(t, l.CanRedo())
	require.Equal(t, "append 1", l.UndoLabel())
}

func TestLog_UndoRedo(t *testing.T) {
	var state []int
	l := NewLog()
	require.NoError(t, l.Push(appendCommand(&state, 1)))
	require.NoError(t, l.Push(appendCommand(&state, 2)))

	require.NoError(t, l.Undo())
	require.Equal(t, []int{1}, state)
	require.Equal(t, "append 2", l.RedoLabel())

	require.NoError(t, l.Undo())
	require.Empty(t, state)
	require.False(t, l.CanUndo())
	require.Equal(t, 2, l.RedoDepth())

	require.NoError(t, l.Redo())
	require.Equal(t, []int{1}, state)
	require.NoError(t, l.Redo())
	require.Equal(t, []int{1, 2}, state)
	require.False(t, l.CanRedo())
}

func TestLog_EmptyUndoRedoAreNoOps(t *testing.T) {
	l := NewLog()

	require.NoError(t, l.Undo())
	require.NoError(t, l.Redo())
	require.Empty(t, l.UndoLabel())
	require.Empty(t, l.RedoLabel())
}

func TestLog_PushClearsRedo(t *testing.T) {
	var state []int
	l := NewLog()
	require.NoError(t, l.Push(appendCommand(&state, 1)))
	require.NoError(t, l.Undo())
	require.True(t, l.CanRedo())

	require.NoError(t, l.Push(appendCommand(&state, 9)))

	require.False(t, l.CanRedo())
	require.Equal(t, []int{9}, state)
	// Discarded commands are not kept alive by the redo backing array.
	require.Nil(t, l.redo[:cap(l.redo)][0])
}

func TestLog_ClearDoesNotRunCommands(t *testing.T) {
	var state []int
	l := NewLog()
	require.NoError(t, l.Push(appendCommand(&state, 1)))
	require.NoError(t, l.Push(appendCommand(&state, 2)))
	require.NoError(t, l.Undo())

	l.Clear()

	require.Equal(t, []int{1}, state)
	require.False(t, l.CanUndo())
	require.False(t, l.CanRedo())
	require.True(t, l.IsClean())
}

func TestLog_FailedPushRecordsNothing(t *testing.T) {
	var state []int
	l := NewLog()
	require.NoError(t, l.Push(appendCommand(&state, 1)))
	require.NoError(t, l.Undo())

	boom := errors.New("boom")
	err := l.Push(New("broken", func() error { return boom }, func() error { return nil }))

	require.ErrorIs(t, err, boom)
	require.False(t, l.CanUndo())
	require.True(t, l.CanRedo(), "redo stack survives a failed push")
}

func TestLog_FailedUndoKeepsStacks(t *testing.T) {
	boom := errors.New("boom")
	l := NewLog()
	require.NoError(t, l.Push(New("stuck", func() error { return nil }, func() error { return boom })))

	require.ErrorIs(t, l.Undo(), boom)
	require.Equal(t, 1, l.UndoDepth())
	require.Equal(t, 0, l.RedoDepth())
}

func TestLog_CleanTracking(t *testing.T) {
	var state []int
	l := NewLog()
	require.True(t, l.IsClean())

	require.NoError(t, l.Push(appendCommand(&state, 1)))
	require.False(t, l.IsClean())

	l.MarkClean()
	require.True(t, l.IsClean())

	require.NoError(t, l.Push(appendCommand(&state, 2)))
	require.False(t, l.IsClean())
	require.NoError(t, l.Undo())
	require.True(t, l.IsClean(), "undo back to the saved position")

	require.NoError(t, l.Undo())
	require.False(t, l.IsClean())
	require.NoError(t, l.Push(appendCommand(&state, 3)))
	require.False(t, l.IsClean())
	require.NoError(t, l.Undo())
	require.False(t, l.IsClean(), "saved state was discarded from the redo stack")
}

type navCommand struct{ Command }

func (navCommand) IsNavigation() bool { return true }

func TestLog_NavigationKeepsClean(t *testing.T) {
	var state []int
	l := NewLog()
	nav := navCommand{New("Switch", func() error { return nil }, func() error { return nil })}

	require.NoError(t, l.Push(nav))
	require.True(t, l.IsClean(), "navigation alone is not a change")

	require.NoError(t, l.Push(appendCommand(&state, 1)))
	require.False(t, l.IsClean())
	l.MarkClean()

	require.NoError(t, l.Push(nav))
	require.True(t, l.IsClean())
	require.NoError(t, l.Undo())
	require.NoError(t, l.Undo())
	require.False(t, l.IsClean(), "undid an edit past the saved position")
	require.NoError(t, l.Redo())
	require.True(t, l.IsClean())
	require.NoError(t, l.Redo())
	require.True(t, l.IsClean())
}

func TestProperty_UndoRedoSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var state []int
		l := NewLog()

		pushes := rapid.IntRange(0, 30).Draw(t, "pushes")
		for i := 0; i < pushes; i++ {
			require.NoError(t, l.Push(appendCommand(&state, rapid.Int().Draw(t, "v"))))
		}
		after := append([]int(nil), state...)

		n := rapid.IntRange(0, pushes).Draw(t, "n")
		for i := 0; i < n; i++ {
			require.NoError(t, l.Undo())
		}
		require.Equal(t, after[:pushes-n], state)
		for i := 0; i < n; i++ {
			require.NoError(t, l.Redo())
		}

		require.Equal(t, after, state)
		require.Equal(t, pushes, l.UndoDepth())
		require.Equal(t, 0, l.RedoDepth())
	})
}

// box lets commands write into whichever slice is current, so the undo
// stack can be replayed onto a fresh one.
type box struct{ values *[]int }

func boxCommand(b *box, v int) Command {
	return New(fmt.Sprintf("append %d", v),
		func() error {
			*b.values = append(*b.values, v)
			return nil
		},
		func() error {
			*b.values = (*b.values)[:len(*b.values)-1]
			return nil
		})
}

func TestProperty_ReplayReproducesState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var live []int
		b := &box{values: &live}
		l := NewLog()

		ops := rapid.SliceOfN(rapid.IntRange(0, 2), 0, 50).Draw(t, "ops")
		for i, op := range ops {
			switch op {
			case 0:
				require.NoError(t, l.Push(boxCommand(b, i)))
			case 1:
				require.NoError(t, l.Undo())
			case 2:
				require.NoError(t, l.Redo())
			}
		}

		var replay []int
		b.values = &replay
		for _, cmd := range l.undo {
			require.NoError(t, cmd.Do())
		}
		require.Equal(t, len(live), len(replay))
		for i := range live {
			require.Equal(t, live[i], replay[i])
		}
	})
}
