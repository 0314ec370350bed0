package app

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/editor"
	"github.com/fontedit/fontedit/internal/export"
	"github.com/fontedit/fontedit/internal/importer"
	"github.com/fontedit/fontedit/internal/keys"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/pubsub"
	"github.com/fontedit/fontedit/internal/store"
	"github.com/fontedit/fontedit/internal/ui/actionbar"
	"github.com/fontedit/fontedit/internal/ui/glyphgrid"
	"github.com/fontedit/fontedit/internal/ui/glyphstrip"
	"github.com/fontedit/fontedit/internal/ui/help"
	"github.com/fontedit/fontedit/internal/ui/modal"
	"github.com/fontedit/fontedit/internal/ui/toaster"
	"github.com/fontedit/fontedit/internal/uistate"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case pubsub.Event[editor.Event]:
		var cmd tea.Cmd
		m, cmd = m.handleSessionEvent(msg.Payload)
		return m, tea.Batch(cmd, m.listener.Listen())

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case modal.SubmitMsg:
		m.modal = nil
		return m.handleSubmit(msg)

	case modal.CancelMsg:
		m.modal = nil
		return m, nil

	case glyphstrip.SelectMsg:
		return m.run(func() error { return m.session.SwitchActiveGlyph(msg.Index) })

	case glyphgrid.ToggleMsg:
		return m.run(func() error { return m.session.TogglePixel(msg.X, msg.Y) })

	case glyphgrid.StrokeMsg:
		return m.run(func() error { return m.session.SetPixels(msg.Grid) })
	}

	if m.modal != nil {
		md, cmd := m.modal.Update(msg)
		m.modal = &md
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.logs.Visible() {
			m.logs = m.logs.Update(msg)
			return m, nil
		}
		if key.Matches(msg, keys.Editor.Logs) {
			m.logs = m.logs.Toggle()
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "esc" || key.Matches(msg, keys.Editor.Help) {
				m.showHelp = false
			}
			return m, nil
		}
		if m.screen == screenCode {
			return m.handleCodeKey(msg)
		}
		return m.handleEditorKey(msg)

	case tea.MouseMsg:
		if m.screen != screenEditor || m.showHelp || m.logs.Visible() {
			return m, nil
		}
		var gridCmd, stripCmd tea.Cmd
		m.grid, gridCmd = m.grid.Update(msg)
		m.strip, stripCmd = m.strip.Update(msg)
		return m, tea.Batch(gridCmd, stripCmd)
	}

	return m, nil
}

// handleSessionEvent mirrors one session observation into the views.
func (m Model) handleSessionEvent(e editor.Event) (Model, tea.Cmd) {
	switch e.Type {
	case editor.EventFaceLoaded:
		log.Debug(log.CatUI, "Face loaded", "font", e.Info.FontName, "glyphs", e.Info.NumberOfGlyphs)
		m.screen = screenEditor
		return m.syncDocument(), nil

	case editor.EventActiveGlyphChanged:
		m.strip = m.strip.SetActive(e.GlyphIndex)
		m.grid = m.grid.SetGlyph(e.Glyph, m.session.Margins())
		m.focus = paneGrid
		return m.applyFocus(), nil

	case editor.EventGlyphChanged:
		if e.Glyph != nil {
			m.strip = m.strip.SetItem(e.GlyphIndex, glyphstrip.ItemFor(e.Glyph))
			if i, _, ok := m.session.ActiveGlyph(); ok && i == e.GlyphIndex {
				m.grid = m.grid.SetGlyph(e.Glyph, m.session.Margins())
			}
		}
		return m.renderInfo(), nil

	case editor.EventUIStateChanged:
		m.state = e.State
		return m, nil

	case editor.EventDocumentTitleChanged:
		m.title = e.Title
		return m.renderInfo(), nil

	case editor.EventSourceCodeChanged:
		m.code.SetContent(e.Source)
		return m, nil

	case editor.EventDocumentClosed:
		m.screen = screenEditor
		return m.syncDocument(), nil

	case editor.EventDocumentError:
		return m.toast(errorText(e.Err), toaster.StyleError)

	case editor.EventDocumentChangedOnDisk:
		name := filepath.Base(e.Path)
		if e.Removed {
			return m.toast(name+" was removed", toaster.StyleWarn)
		}
		return m.toast(name+" changed on disk (O to reload)", toaster.StyleWarn)
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Editor.Quit):
		if m.session.IsModifiedSinceSave() {
			return m.confirm(modal.Config{
				ID:             confirmQuit,
				Title:          "Quit",
				Message:        "Discard unsaved changes and quit?",
				ConfirmLabel:   "Quit",
				ConfirmVariant: modal.ButtonDanger,
			})
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Editor.Help):
		m.help = help.New(help.EditorSections()).SetSize(m.width, m.height)
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Editor.FocusNext):
		if m.grid.Glyph() == nil {
			return m, nil
		}
		if m.focus == paneStrip {
			m.focus = paneGrid
		} else {
			m.focus = paneStrip
		}
		return m.applyFocus(), nil

	case key.Matches(msg, keys.Editor.NextGlyph):
		return m.stepGlyph(1)

	case key.Matches(msg, keys.Editor.PrevGlyph):
		return m.stepGlyph(-1)

	case key.Matches(msg, keys.Editor.Reload):
		return m.reload()
	}

	if action, ok := actionbar.Lookup(msg); ok {
		if !m.state.Has(action) {
			log.Debug(log.CatUI, "Action disabled", "action", action.String())
			return m, nil
		}
		return m.handleAction(action)
	}

	var cmd tea.Cmd
	if m.focus == paneGrid {
		m.grid, cmd = m.grid.Update(msg)
	} else {
		m.strip, cmd = m.strip.Update(msg)
	}
	return m, cmd
}

func (m Model) stepGlyph(step int) (tea.Model, tea.Cmd) {
	n := m.session.GlyphCount()
	if n == 0 {
		return m, nil
	}
	i, _, ok := m.session.ActiveGlyph()
	if !ok {
		i = m.strip.Highlight() - step
	}
	next := (i + step + n) % n
	return m.run(func() error { return m.session.SwitchActiveGlyph(next) })
}

func (m Model) handleAction(action uistate.InterfaceAction) (tea.Model, tea.Cmd) {
	switch action {
	case uistate.ImportFont:
		if m.session.IsModifiedSinceSave() {
			return m.confirm(modal.Config{
				ID:             confirmDiscard,
				Title:          "Unsaved Changes",
				Message:        "Discard unsaved changes and open another font?",
				ConfirmLabel:   "Discard",
				ConfirmVariant: modal.ButtonDanger,
			})
		}
		return m.promptOpen()

	case uistate.Save:
		if m.session.Path() == "" {
			return m.confirm(modal.Config{
				ID:         promptSave,
				Title:      "Save As",
				InputLabel: "Path",
				Value:      m.session.FaceInfo().FontName + store.Extension,
				MinWidth:   56,
			})
		}
		return m.save("")

	case uistate.Copy:
		return m.runToast(m.session.Copy, "Copied glyph")
	case uistate.Paste:
		return m.run(m.session.Paste)
	case uistate.Undo:
		return m.run(m.session.Undo)
	case uistate.Redo:
		return m.run(m.session.Redo)
	case uistate.ResetGlyph:
		return m.run(m.session.ResetGlyph)

	case uistate.ResetFont:
		return m.confirm(modal.Config{
			ID:             confirmResetFont,
			Title:          "Reset Font",
			Message:        "Restore every glyph to its imported pixels? This cannot be undone.",
			ConfirmLabel:   "Reset",
			ConfirmVariant: modal.ButtonDanger,
		})

	case uistate.Export:
		return m.promptExport()

	case uistate.TabCode:
		return m.showCode()
	}
	return m, nil
}

func (m Model) promptOpen() (tea.Model, tea.Cmd) {
	return m.confirm(modal.Config{
		ID:          promptOpen,
		Title:       "Open",
		Message:     "Open a saved document or import a font file.",
		InputLabel:  "Path",
		Placeholder: "font.ttf, doc.fontedit or builtin:goregular",
		MinWidth:    56,
	})
}

func (m Model) promptExport() (tea.Model, tea.Cmd) {
	name := m.session.FaceInfo().FontName
	if p := m.session.Path(); p != "" {
		name = strings.TrimSuffix(p, filepath.Ext(p))
	}
	opts := m.session.FormatOptions()
	return m.confirm(modal.Config{
		ID:         promptExport,
		Title:      "Export " + opts.Format.Info().Name,
		InputLabel: "Path",
		Value:      name + opts.Format.Info().Extension,
		MinWidth:   56,
	})
}

func (m Model) showCode() (tea.Model, tea.Cmd) {
	if _, err := m.session.SourceCode(m.ctx); err != nil {
		return m.failed(err)
	}
	m.screen = screenCode
	m.code.GotoTop()
	m.help = help.New(help.CodeSections()).SetSize(m.width, m.height)
	return m, nil
}

func (m Model) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := m.session.FormatOptions()
	switch {
	case key.Matches(msg, keys.Code.Close):
		m.screen = screenEditor
		return m, nil
	case key.Matches(msg, keys.Editor.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, keys.Code.Export):
		return m.promptExport()
	case key.Matches(msg, keys.Code.CycleFormat):
		opts.Format = opts.Format.Next()
	case key.Matches(msg, keys.Code.ToggleInvert):
		opts.InvertBits = !opts.InvertBits
	case key.Matches(msg, keys.Code.ToggleMSB):
		opts.MSBFirst = !opts.MSBFirst
	case key.Matches(msg, keys.Code.ToggleSpacing):
		opts.IncludeLineSpacing = !opts.IncludeLineSpacing
	default:
		var cmd tea.Cmd
		m.code, cmd = m.code.Update(msg)
		return m, cmd
	}
	return m.applyFormat(opts)
}

func (m Model) applyFormat(opts export.Options) (tea.Model, tea.Cmd) {
	if err := m.session.SetFormatOptions(opts); err != nil {
		return m.failed(err)
	}
	if _, err := m.session.SourceCode(m.ctx); err != nil {
		return m.failed(err)
	}
	if m.configPath != "" {
		if err := config.SaveExportOptions(m.configPath, opts); err != nil {
			log.Warn(log.CatConfig, "Saving export options failed", "path", m.configPath, "error", err)
		}
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.session.Path() == "" {
		return m, nil
	}
	if m.session.IsModifiedSinceSave() {
		return m.confirm(modal.Config{
			ID:             confirmReload,
			Title:          "Reload",
			Message:        "Discard unsaved changes and reload from disk?",
			ConfirmLabel:   "Reload",
			ConfirmVariant: modal.ButtonDanger,
		})
	}
	path := m.session.Path()
	return m.run(func() error { return m.session.OpenDocument(m.ctx, path) })
}

func (m Model) handleSubmit(msg modal.SubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.ID {
	case promptOpen:
		return m.open(msg.Value)
	case promptSave:
		return m.save(msg.Value)
	case promptExport:
		path := msg.Value
		return m.runToast(func() error { return m.session.ExportTo(m.ctx, path) }, "Exported "+filepath.Base(path))
	case confirmResetFont:
		return m.run(m.session.ResetFont)
	case confirmReload:
		path := m.session.Path()
		return m.run(func() error { return m.session.OpenDocument(m.ctx, path) })
	case confirmDiscard:
		return m.promptOpen()
	case confirmQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) open(path string) (tea.Model, tea.Cmd) {
	if !importer.IsFontPath(path) {
		return m.run(func() error { return m.session.OpenDocument(m.ctx, path) })
	}
	desc, err := m.cfg.Import.Descriptor(path)
	if err != nil {
		return m.failed(err)
	}
	return m.run(func() error { return m.session.ImportFont(m.ctx, desc) })
}

func (m Model) save(path string) (tea.Model, tea.Cmd) {
	if err := m.session.SaveDocument(m.ctx, path); err != nil {
		return m.failed(err)
	}
	if m.configPath != "" {
		if err := config.SaveLastDocument(m.configPath, m.session.Path()); err != nil {
			log.Warn(log.CatConfig, "Recording last document failed", "path", m.configPath, "error", err)
		}
	}
	return m.toast("Saved "+filepath.Base(m.session.Path()), toaster.StyleSuccess)
}

func (m Model) confirm(cfg modal.Config) (tea.Model, tea.Cmd) {
	md := modal.New(cfg)
	md.SetSize(m.width, m.height)
	m.modal = &md
	m.showHelp = false
	return m, md.Init()
}

// run calls a session operation. Failures the session already published
// are toasted by the event handler.
func (m Model) run(op func() error) (tea.Model, tea.Cmd) {
	if err := op(); err != nil {
		return m.failed(err)
	}
	return m, nil
}

func (m Model) runToast(op func() error, success string) (tea.Model, tea.Cmd) {
	if err := op(); err != nil {
		return m.failed(err)
	}
	return m.toast(success, toaster.StyleSuccess)
}

func (m Model) failed(err error) (tea.Model, tea.Cmd) {
	if editor.Reported(err) {
		return m, nil
	}
	return m.toast(errorText(err), toaster.StyleError)
}

func (m Model) toast(text string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(text, style, toaster.DefaultDuration)
	return m, cmd
}

func errorText(err error) string {
	switch {
	case errors.Is(err, editor.ErrNoDocument):
		return "No document is open"
	case errors.Is(err, editor.ErrNoPath):
		return "The document has no path yet"
	}
	return err.Error()
}
