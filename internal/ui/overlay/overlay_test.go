package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func background(width, height int) string {
	rows := make([]string, height)
	for i := range rows {
		rows[i] = strings.Repeat(".", width)
	}
	return strings.Join(rows, "\n")
}

func TestPlace_Center(t *testing.T) {
	result := Place(Config{Width: 5, Height: 3}, "XX", background(5, 3))

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ".XX..", lines[1])
	assert.Equal(t, ".....", lines[0])
	assert.Equal(t, ".....", lines[2])
}

func TestPlace_Top(t *testing.T) {
	result := Place(Config{Width: 6, Height: 4, Position: Top, PadY: 1}, "XX", background(6, 4))

	lines := strings.Split(result, "\n")
	assert.Equal(t, "......", lines[0])
	assert.Equal(t, "..XX..", lines[1])
}

func TestPlace_Bottom(t *testing.T) {
	result := Place(Config{Width: 6, Height: 4, Position: Bottom}, "XX\nYY", background(6, 4))

	lines := strings.Split(result, "\n")
	assert.Equal(t, "..XX..", lines[2])
	assert.Equal(t, "..YY..", lines[3])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	result := Place(Config{Width: 4, Height: 3}, "X", "")

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, " X  ", lines[1])
}

func TestPlace_LargeForegroundClampsToOrigin(t *testing.T) {
	result := Place(Config{Width: 3, Height: 2}, "XXXXX\nXXXXX\nXXXXX", background(3, 2))

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "XXXXX", lines[0])
}

func TestPlace_KeepsStyledBackground(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("abcdef")

	result := Place(Config{Width: 6, Height: 1}, "XX", styled)

	assert.Equal(t, "abXXef", stripped(result))
}

func stripped(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		w, h int
		x, y int
	}{
		{"center", Config{Width: 10, Height: 10}, 4, 2, 3, 4},
		{"top with padding", Config{Width: 10, Height: 10, Position: Top, PadY: 2}, 4, 2, 3, 2},
		{"bottom with padding", Config{Width: 10, Height: 10, Position: Bottom, PadY: 1}, 4, 2, 3, 7},
		{"clamped", Config{Width: 2, Height: 2}, 6, 6, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := origin(tt.cfg, tt.w, tt.h)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}
