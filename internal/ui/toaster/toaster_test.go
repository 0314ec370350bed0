package toaster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Saved", StyleSuccess, DefaultDuration)

	assert.True(t, m.Visible())
	assert.Equal(t, "Saved", m.Message())
	assert.Contains(t, m.View(), "Saved")
	assert.NotNil(t, cmd)
}

func TestShow_ReplacesExisting(t *testing.T) {
	m, _ := New().Show("First", StyleSuccess, DefaultDuration)
	m, _ = m.Show("Second", StyleError, DefaultDuration)

	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✅"},
		{StyleError, "❌"},
		{StyleInfo, "ℹ️"},
		{StyleWarn, "⚠️"},
	}
	for _, tt := range tests {
		m, _ := New().Show("message", tt.style, DefaultDuration)
		view := m.View()
		assert.Contains(t, view, tt.icon)
		assert.Contains(t, view, "message")
		assert.Contains(t, view, "╭")
	}
}

func TestUpdate_DismissHidesMatchingToast(t *testing.T) {
	m, cmd := New().Show("Saved", StyleSuccess, 0)
	require.NotNil(t, cmd)

	m = m.Update(cmd())

	assert.False(t, m.Visible())
}

func TestUpdate_StaleDismissIsIgnored(t *testing.T) {
	m, first := New().Show("First", StyleSuccess, 0)
	m, _ = m.Show("Second", StyleInfo, 0)

	m = m.Update(first())

	assert.True(t, m.Visible())
	assert.Equal(t, "Second", m.Message())
}

func TestOverlay_NotVisibleReturnsBackground(t *testing.T) {
	bg := "Background\nContent"

	assert.Equal(t, bg, New().SetSize(20, 10).Overlay(bg))
}

func TestOverlay_PlacesNearBottom(t *testing.T) {
	m, _ := New().SetSize(30, 10).Show("Toast", StyleSuccess, DefaultDuration)
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 10), "\n")

	lines := strings.Split(m.Overlay(bg), "\n")

	require.Len(t, lines, 10)
	assert.Contains(t, lines[7], "Toast")
	assert.Equal(t, strings.Repeat(".", 30), lines[9])
}

func TestHide_ImmutableModel(t *testing.T) {
	m1, _ := New().Show("Hello", StyleSuccess, DefaultDuration)
	m2 := m1.Hide()

	assert.True(t, m1.Visible())
	assert.False(t, m2.Visible())
}
