package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPane_Basic(t *testing.T) {
	result := Pane("content", "Glyphs", 20, 5, false)

	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╮")
	assert.Contains(t, result, "╰")
	assert.Contains(t, result, "╯")

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Glyphs")
	assert.Contains(t, lines[1], "content")
}

func TestPane_LinesHaveEqualWidth(t *testing.T) {
	result := Pane("a\nlonger line here\n", "T", 12, 6, true)

	for i, line := range strings.Split(result, "\n") {
		assert.Equal(t, 12, lipgloss.Width(line), "line %d", i)
	}
}

func TestPane_ClipsContent(t *testing.T) {
	result := Pane("1\n2\n3\n4\n5", "", 10, 4, false)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 4)
	assert.NotContains(t, result, "3")
}

func TestPane_LongTitleIsTruncated(t *testing.T) {
	result := Pane("", "A Very Long Pane Title Indeed", 16, 3, false)

	first := strings.Split(result, "\n")[0]
	assert.LessOrEqual(t, lipgloss.Width(first), 16)
	assert.Contains(t, first, "...")
}

func TestPane_NarrowWidthSkipsTitle(t *testing.T) {
	result := Pane("", "Title", 4, 3, false)

	assert.NotContains(t, result, "Title")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "..."},
		{"hello", 0, ""},
		{"日本語テキスト", 7, "日本..."},
		{"e\u0301e\u0301e\u0301e\u0301", 3, "..."},
		{"e\u0301e\u0301e\u0301e\u0301x", 4, "e\u0301..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "Truncate(%q, %d)", tt.in, tt.width)
	}
}

func TestPane_FocusColorsBorder(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	focused := Pane("x", "T", 10, 3, true)
	unfocused := Pane("x", "T", 10, 3, false)

	assert.Contains(t, focused, "\x1b[")
	assert.NotEqual(t, focused, unfocused)
}
