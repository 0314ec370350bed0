package logoverlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontedit/fontedit/internal/log"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func withEntries(t *testing.T) {
	t.Helper()
	log.InitWriter(nil, log.LevelDebug)
	t.Cleanup(func() { log.SetEnabled(false); log.ClearRecent() })
	log.ClearRecent()
	log.Debug(log.CatUI, "debug entry")
	log.Info(log.CatStore, "info entry")
	log.Warn(log.CatWatcher, "warn entry")
	log.Error(log.CatExport, "error entry")
}

func TestToggle(t *testing.T) {
	m := New().SetSize(100, 40)
	assert.False(t, m.Visible())

	m = m.Toggle()
	assert.True(t, m.Visible())

	m = m.Update(keyMsg("esc"))
	assert.False(t, m.Visible())

	m = m.Toggle().Update(keyMsg("ctrl+x"))
	assert.False(t, m.Visible())
}

func TestUpdate_IgnoredWhenHidden(t *testing.T) {
	m := New().SetSize(100, 40)

	m = m.Update(keyMsg("e"))

	assert.Equal(t, log.LevelDebug, m.MinLevel())
}

func TestView_FiltersByLevel(t *testing.T) {
	withEntries(t)
	m := New().SetSize(120, 40).Toggle()

	view := m.View()
	for _, want := range []string{"debug entry", "info entry", "warn entry", "error entry"} {
		assert.Contains(t, view, want)
	}

	m = m.Update(keyMsg("w"))
	view = m.View()
	assert.Equal(t, log.LevelWarn, m.MinLevel())
	assert.NotContains(t, view, "debug entry")
	assert.NotContains(t, view, "info entry")
	assert.Contains(t, view, "warn entry")
	assert.Contains(t, view, "error entry")
}

func TestClear(t *testing.T) {
	withEntries(t)
	m := New().SetSize(120, 40).Toggle()

	m = m.Update(keyMsg("c"))

	assert.Contains(t, m.View(), "No logs to display")
}

func TestView_TruncatesLongEntries(t *testing.T) {
	log.InitWriter(nil, log.LevelDebug)
	t.Cleanup(func() { log.SetEnabled(false); log.ClearRecent() })
	log.ClearRecent()
	log.Info(log.CatUI, strings.Repeat("x", 300))

	m := New().SetSize(80, 30).Toggle()

	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 80)
	}
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	bg := "background"

	assert.Equal(t, bg, New().SetSize(80, 20).Overlay(bg))
}

func TestOverlay_Visible(t *testing.T) {
	withEntries(t)
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 100)+"\n", 40), "\n")

	out := New().SetSize(100, 40).Toggle().Overlay(bg)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 40)
	assert.Contains(t, out, "Logs")
}
