package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fontedit/fontedit/internal/font"
)

func glyph(rows ...string) *font.Glyph {
	return font.NewGlyph("A", 'A', font.MustParseGrid(rows...))
}

func TestMemory_EmptyPaste(t *testing.T) {
	m := NewMemory()

	grid, ok, err := m.Paste()
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, grid)
	require.False(t, m.HasPayload())
}

func TestMemory_CopyPaste(t *testing.T) {
	m := NewMemory()
	g := glyph("#.", ".#")

	require.NoError(t, m.Copy(g))
	require.True(t, m.HasPayload())

	grid, ok, err := m.Paste()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"#.", ".#"}, grid.Rows())

	// Pasted grids are independent copies.
	grid.Set(0, 0, false)
	again, _, _ := m.Paste()
	require.True(t, again.At(0, 0))
}

func TestMemory_CopyNil(t *testing.T) {
	require.Error(t, NewMemory().Copy(nil))
}

func TestEncodeDecode(t *testing.T) {
	grid := font.MustParseGrid("#..", ".#.", "..#")

	text := Encode(grid)
	require.Equal(t, "fontedit-glyph 3x3\n#..\n.#.\n..#", text)

	decoded, err := Decode(text)
	require.NoError(t, err)
	require.True(t, grid.Equal(decoded))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain text", "hello"},
		{"bad header", "fontedit-glyph axb\n#"},
		{"row count", "fontedit-glyph 2x2\n##"},
		{"row width", "fontedit-glyph 3x1\n##"},
		{"bad pixel", "fontedit-glyph 2x1\n#x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			require.Error(t, err)
		})
	}
}

func TestSystem_RoundTrip(t *testing.T) {
	var stored string
	s := &System{
		write: func(text string) error { stored = text; return nil },
		read:  func() (string, error) { return stored, nil },
	}
	require.False(t, s.HasPayload())

	require.NoError(t, s.Copy(glyph("##", "..")))
	require.True(t, s.HasPayload())

	grid, ok, err := s.Paste()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"##", ".."}, grid.Rows())
}

func TestSystem_ForeignText(t *testing.T) {
	s := &System{
		write: func(string) error { return nil },
		read:  func() (string, error) { return "not a glyph", nil },
	}

	grid, ok, err := s.Paste()
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, grid)
}

func TestSystem_Errors(t *testing.T) {
	boom := errors.New("no clipboard utility")
	s := &System{
		write: func(string) error { return boom },
		read:  func() (string, error) { return "", boom },
	}

	require.ErrorIs(t, s.Copy(glyph("#")), boom)
	require.False(t, s.HasPayload())
	_, _, err := s.Paste()
	require.ErrorIs(t, err, boom)
}
