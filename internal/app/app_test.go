package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/editor"
	"github.com/fontedit/fontedit/internal/export"
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/importer"
	"github.com/fontedit/fontedit/internal/ui/glyphgrid"
	"github.com/fontedit/fontedit/internal/ui/glyphstrip"
	"github.com/fontedit/fontedit/internal/ui/modal"
)

func init() {
	zone.NewGlobal()
}

type fakeImporter struct {
	face *font.Face
	err  error
}

func (f *fakeImporter) Import(_ context.Context, _ importer.Descriptor) (*font.Face, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.face.Clone(), nil
}

func testFace(t *testing.T) *font.Face {
	t.Helper()
	glyphs := make([]*font.Glyph, 4)
	for i := range glyphs {
		glyphs[i] = font.NewGlyph(fmt.Sprintf("g%d", i), 'A'+rune(i), font.NewPixelGrid(5, 7))
	}
	face, err := font.NewFace(font.Metadata{Name: "Tiny", PointSize: 8}, glyphs, font.Margins{})
	require.NoError(t, err)
	return face
}

// harness drives a Model and feeds it the session events it would receive
// from the program loop.
type harness struct {
	t       *testing.T
	m       Model
	pending chan tea.Msg
}

func newHarness(t *testing.T, imp importer.Importer) *harness {
	t.Helper()
	s, err := editor.New(editor.WithImporter(imp))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	m := New(s, config.Defaults(), "")
	t.Cleanup(m.Close)
	h := &harness{t: t, m: m}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// key sends a key press and delivers the component message it produces,
// if any.
func (h *harness) key(k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+e":
		msg = tea.KeyMsg{Type: tea.KeyCtrlE}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	cmd := h.send(msg)
	h.follow(cmd)
	return cmd
}

// follow runs cmd briefly and forwards the glyph component messages it
// yields. Timers are left running.
func (h *harness) follow(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case tea.BatchMsg:
			for _, c := range msg {
				h.follow(c)
			}
		case glyphgrid.ToggleMsg, glyphgrid.StrokeMsg, glyphstrip.SelectMsg:
			h.send(msg)
		}
	case <-time.After(20 * time.Millisecond):
	}
}

// settle delivers every event already published by the session.
func (h *harness) settle() {
	for {
		if h.pending == nil {
			ch := make(chan tea.Msg, 1)
			listen := h.m.listener.Listen()
			go func() { ch <- listen() }()
			h.pending = ch
		}
		select {
		case msg := <-h.pending:
			h.pending = nil
			if msg == nil {
				return
			}
			h.send(msg)
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func (h *harness) importFont() {
	h.t.Helper()
	h.key("o")
	require.NotNil(h.t, h.m.modal)
	require.Equal(h.t, promptOpen, h.m.modal.ID())
	h.send(modal.SubmitMsg{ID: promptOpen, Value: "tiny.ttf"})
	h.settle()
	require.True(h.t, h.m.session.HasDocument())
}

func (h *harness) selectGlyph(i int) {
	h.t.Helper()
	h.send(glyphstrip.SelectMsg{Index: i})
	h.settle()
}

func (h *harness) editGlyph() {
	h.t.Helper()
	h.selectGlyph(0)
	h.key("space")
	h.settle()
	require.True(h.t, h.m.session.IsModifiedSinceSave())
}

func TestApp_EmptyView(t *testing.T) {
	h := newHarness(t, &fakeImporter{})

	view := h.m.View()

	assert.Contains(t, view, editor.AppName)
	assert.Contains(t, view, "Press o to open")
	assert.Contains(t, view, "o Open")
}

func TestApp_ViewEmptyBeforeSize(t *testing.T) {
	s, err := editor.New(editor.WithImporter(&fakeImporter{}))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	m := New(s, config.Defaults(), "")
	t.Cleanup(m.Close)

	assert.Empty(t, m.View())
}

func TestApp_ImportFillsStrip(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})

	h.importFont()

	assert.Equal(t, 4, h.m.strip.Len())
	assert.Contains(t, h.m.title, "Tiny")
	assert.Contains(t, h.m.View(), "Tiny")
	assert.Nil(t, h.m.modal)
}

func TestApp_SelectFocusesGrid(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()

	h.selectGlyph(2)

	require.NotNil(t, h.m.grid.Glyph())
	assert.Equal(t, 'C', h.m.grid.Glyph().Code())
	assert.Equal(t, paneGrid, h.m.focus)
	assert.True(t, h.m.grid.Focused())
	assert.False(t, h.m.strip.Focused())
}

func TestApp_ToggleAndUndo(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	h.selectGlyph(0)

	h.key("space")
	h.settle()

	_, g, ok := h.m.session.ActiveGlyph()
	require.True(t, ok)
	assert.True(t, g.At(0, 0))
	assert.True(t, h.m.grid.Glyph().At(0, 0))
	assert.Contains(t, h.m.title, "Edited")

	h.key("u")
	h.settle()

	_, g, _ = h.m.session.ActiveGlyph()
	assert.False(t, g.At(0, 0))
	assert.False(t, h.m.grid.Glyph().At(0, 0))
}

func TestApp_NextGlyphWraps(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	h.selectGlyph(3)

	h.key("]")
	h.settle()

	i, _, ok := h.m.session.ActiveGlyph()
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestApp_DisabledActionIgnored(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()

	h.key("u")
	h.key("R")
	h.key("ctrl+s")

	assert.Nil(t, h.m.modal)
	assert.False(t, h.m.toaster.Visible())
}

func TestApp_QuitWithoutChanges(t *testing.T) {
	h := newHarness(t, &fakeImporter{})

	cmd := h.key("q")

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitAsksWhenEdited(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	h.editGlyph()

	h.key("q")

	require.NotNil(t, h.m.modal)
	assert.Equal(t, confirmQuit, h.m.modal.ID())

	cmd := h.send(modal.SubmitMsg{ID: confirmQuit})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_OpenAsksBeforeDiscardingEdits(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	h.editGlyph()

	h.key("o")

	require.NotNil(t, h.m.modal)
	assert.Equal(t, confirmDiscard, h.m.modal.ID())

	h.send(modal.CancelMsg{ID: confirmDiscard})
	assert.Nil(t, h.m.modal)
	assert.True(t, h.m.session.IsModifiedSinceSave())
	assert.True(t, h.m.session.IsGlyphModified(0))

	h.key("o")
	h.send(modal.SubmitMsg{ID: confirmDiscard})
	require.NotNil(t, h.m.modal)
	assert.Equal(t, promptOpen, h.m.modal.ID())

	h.send(modal.SubmitMsg{ID: promptOpen, Value: "tiny.ttf"})
	h.settle()
	assert.False(t, h.m.session.IsModifiedSinceSave())
}

func TestApp_OpenWithoutEditsSkipsConfirm(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()

	h.key("o")

	require.NotNil(t, h.m.modal)
	assert.Equal(t, promptOpen, h.m.modal.ID())
}

func TestApp_ModalCancel(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	h.editGlyph()

	h.key("R")
	require.NotNil(t, h.m.modal)
	assert.Equal(t, confirmResetFont, h.m.modal.ID())

	h.send(modal.CancelMsg{ID: confirmResetFont})

	assert.Nil(t, h.m.modal)
}

func TestApp_SaveAsPrompt(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	h.editGlyph()
	path := filepath.Join(t.TempDir(), "tiny.fontedit")

	h.key("ctrl+s")
	require.NotNil(t, h.m.modal)
	assert.Equal(t, promptSave, h.m.modal.ID())
	assert.Equal(t, "Tiny.fontedit", h.m.modal.Value())

	h.send(modal.SubmitMsg{ID: promptSave, Value: path})
	h.settle()

	assert.FileExists(t, path)
	assert.Equal(t, path, h.m.session.Path())
	assert.Equal(t, "tiny", h.m.title)
	assert.True(t, h.m.toaster.Visible())
	assert.Contains(t, h.m.toaster.Message(), "Saved tiny.fontedit")
}

func TestApp_ExportPrompt(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()
	path := filepath.Join(t.TempDir(), "tiny.h")

	h.key("ctrl+e")
	require.NotNil(t, h.m.modal)
	assert.Equal(t, promptExport, h.m.modal.ID())
	assert.Equal(t, "Tiny.h", h.m.modal.Value())

	h.send(modal.SubmitMsg{ID: promptExport, Value: path})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, h.m.toaster.Message(), "Exported tiny.h")
}

func TestApp_CodeView(t *testing.T) {
	h := newHarness(t, &fakeImporter{face: testFace(t)})
	h.importFont()

	h.key("c")
	h.settle()

	require.Equal(t, screenCode, h.m.screen)
	assert.Contains(t, h.m.View(), "Source")

	h.key("f")
	h.settle()
	assert.Equal(t, export.FormatArduino, h.m.session.FormatOptions().Format)

	h.key("i")
	assert.True(t, h.m.session.FormatOptions().InvertBits)

	h.key("esc")
	assert.Equal(t, screenEditor, h.m.screen)
}

func TestApp_ImportErrorToastedOnce(t *testing.T) {
	h := newHarness(t, &fakeImporter{err: errors.New("bad font")})

	h.key("o")
	h.send(modal.SubmitMsg{ID: promptOpen, Value: "broken.ttf"})
	assert.False(t, h.m.toaster.Visible(), "returned error was already published")

	h.settle()

	assert.True(t, h.m.toaster.Visible())
	assert.Contains(t, h.m.toaster.Message(), "bad font")
	assert.False(t, h.m.session.HasDocument())
}

func TestApp_HelpOverlay(t *testing.T) {
	h := newHarness(t, &fakeImporter{})

	h.key("?")
	require.True(t, h.m.showHelp)
	assert.Contains(t, h.m.View(), "Keybindings")

	h.key("esc")
	assert.False(t, h.m.showHelp)
}

func TestApp_Program(t *testing.T) {
	s, err := editor.New(editor.WithImporter(&fakeImporter{face: testFace(t)}))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	m := New(s, config.Defaults(), "")
	t.Cleanup(m.Close)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "Press o to open")
	}, teatest.WithDuration(2*time.Second))

	tm.Send(modal.SubmitMsg{ID: promptOpen, Value: "tiny.ttf"})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "Tiny")
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

func TestApp_LogOverlay(t *testing.T) {
	h := newHarness(t, &fakeImporter{})

	h.send(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, h.m.logs.Visible())
	assert.Contains(t, h.m.View(), "Logs")

	// Editor keys do not leak through while the log is shown.
	h.key("o")
	assert.Nil(t, h.m.modal)

	h.key("esc")
	assert.False(t, h.m.logs.Visible())
}
