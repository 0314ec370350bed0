// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/editor"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/pubsub"
	"github.com/fontedit/fontedit/internal/ui/actionbar"
	"github.com/fontedit/fontedit/internal/ui/glyphgrid"
	"github.com/fontedit/fontedit/internal/ui/glyphstrip"
	"github.com/fontedit/fontedit/internal/ui/help"
	"github.com/fontedit/fontedit/internal/ui/logoverlay"
	"github.com/fontedit/fontedit/internal/ui/markdown"
	"github.com/fontedit/fontedit/internal/ui/modal"
	"github.com/fontedit/fontedit/internal/ui/styles"
	"github.com/fontedit/fontedit/internal/ui/toaster"
	"github.com/fontedit/fontedit/internal/uistate"
)

// screen is the main area being shown.
type screen int

const (
	screenEditor screen = iota
	screenCode
)

// pane is the focused editor pane.
type pane int

const (
	paneStrip pane = iota
	paneGrid
)

// Modal identifiers.
const (
	promptOpen       = "open"
	promptSave       = "save"
	promptExport     = "export"
	confirmResetFont = "reset-font"
	confirmQuit      = "quit"
	confirmReload    = "reload"
	confirmDiscard   = "discard"
)

// Layout constants.
const (
	headerHeight  = 1
	footerHeight  = 2
	minStripWidth = 20
)

// Model is the root application state.
type Model struct {
	session    *editor.Session
	cfg        config.Config
	configPath string

	ctx      context.Context
	cancel   context.CancelFunc
	listener *pubsub.ContinuousListener[editor.Event]

	screen   screen
	focus    pane
	strip    glyphstrip.Model
	grid     glyphgrid.Model
	code     viewport.Model
	info     string
	infoMD   *markdown.Renderer
	toaster  toaster.Model
	modal    *modal.Model
	help     help.Model
	showHelp bool
	logs     logoverlay.Model

	title string
	state uistate.State

	width  int
	height int
}

// New creates the root model over session. configPath receives export
// option changes and may be empty.
func New(session *editor.Session, cfg config.Config, configPath string) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		session:    session,
		cfg:        cfg,
		configPath: configPath,
		ctx:        ctx,
		cancel:     cancel,
		listener:   pubsub.NewContinuousListener[editor.Event](ctx, session.Broker()),
		strip:      glyphstrip.New(),
		grid:       glyphgrid.New(),
		code:       viewport.New(0, 0),
		toaster:    toaster.New(),
		help:       help.New(help.EditorSections()),
		logs:       logoverlay.New(),
		title:      session.Title(),
		state:      session.UIState(),
	}
	return m.syncDocument()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// Close stops listening to the session.
func (m *Model) Close() {
	m.cancel()
}

// syncDocument rebuilds the glyph views from the session.
func (m Model) syncDocument() Model {
	items := make([]glyphstrip.Item, 0, m.session.GlyphCount())
	for i := range m.session.GlyphCount() {
		g, err := m.session.Glyph(i)
		if err != nil {
			log.Warn(log.CatUI, "Glyph missing while syncing", "index", i, "error", err)
			continue
		}
		items = append(items, glyphstrip.ItemFor(g))
	}
	m.strip = m.strip.SetItems(items)

	if i, g, ok := m.session.ActiveGlyph(); ok {
		m.strip = m.strip.SetActive(i)
		m.grid = m.grid.SetGlyph(g, m.session.Margins())
	} else {
		m.strip = m.strip.SetActive(-1)
		m.grid = m.grid.SetGlyph(nil, m.session.Margins())
		m.focus = paneStrip
	}
	m = m.applyFocus()
	return m.renderInfo()
}

func (m Model) applyFocus() Model {
	m.strip = m.strip.Focus(m.focus == paneStrip)
	m.grid = m.grid.Focus(m.focus == paneGrid)
	return m
}

// renderInfo refreshes the face summary pane.
func (m Model) renderInfo() Model {
	if !m.session.HasDocument() {
		m.info = styles.HintStyle.Render("Press o to open a document or import a font.")
		return m
	}
	md := markdown.FaceSummary(markdown.Summary{
		Path:     m.session.Path(),
		Info:     m.session.FaceInfo(),
		Margins:  m.session.Margins(),
		Modified: m.session.ModifiedLabels(),
	})

	width := max(m.rightWidth()-2, 20)
	if m.infoMD == nil || m.infoMD.Width() != width {
		r, err := markdown.New(width)
		if err != nil {
			log.Warn(log.CatUI, "Markdown renderer unavailable", "error", err)
			m.info = md
			return m
		}
		m.infoMD = r
	}
	out, err := m.infoMD.Render(md)
	if err != nil {
		log.Warn(log.CatUI, "Rendering face summary failed", "error", err)
		out = md
	}
	m.info = strings.TrimSpace(out)
	return m
}

func (m Model) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, 3)
}

func (m Model) stripWidth() int {
	return max(m.width*2/5, minStripWidth)
}

func (m Model) rightWidth() int {
	return max(m.width-m.stripWidth(), 10)
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height
	m.strip = m.strip.SetSize(m.stripWidth()-2, m.bodyHeight()-2)
	m.code.Width = max(width-2, 1)
	m.code.Height = max(m.bodyHeight()-2, 1)
	m.toaster = m.toaster.SetSize(width, height)
	m.help = m.help.SetSize(width, height)
	m.logs = m.logs.SetSize(width, height)
	if m.modal != nil {
		m.modal.SetSize(width, height)
	}
	return m.renderInfo()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	if m.screen == screenCode {
		body = styles.Pane(m.code.View(), "Source · "+m.session.FormatOptions().String(), m.width, m.bodyHeight(), true)
	} else {
		body = m.editorView()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())
	switch {
	case m.modal != nil:
		view = m.modal.Overlay(view)
	case m.showHelp:
		view = m.help.Overlay(view)
	}
	view = m.logs.Overlay(view)
	view = m.toaster.Overlay(view)
	return zone.Scan(view)
}

func (m Model) headerView() string {
	title := m.title
	var edited string
	if name, ok := strings.CutSuffix(title, " - Edited"); ok {
		title, edited = name, styles.EditedStyle.Render(" - Edited")
	}
	header := styles.TitleStyle.Render(title) + edited
	if m.session.HasDocument() {
		info := m.session.FaceInfo()
		header += styles.HintStyle.Render(fmt.Sprintf("  %d glyphs · %s", info.NumberOfGlyphs, info.Size))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(header)
}

func (m Model) editorView() string {
	height := m.bodyHeight()
	left := styles.Pane(m.strip.View(), "Glyphs", m.stripWidth(), height, m.focus == paneStrip)

	gridTitle := "Glyph"
	if g := m.grid.Glyph(); g != nil {
		x, y := m.grid.Cursor()
		gridTitle = fmt.Sprintf("%s (%d,%d)", g.Label(), x, y)
	}
	_, gridRows := m.grid.Size()
	gridHeight := min(max(gridRows+2, 3), height-3)
	right := lipgloss.JoinVertical(lipgloss.Left,
		styles.Pane(m.grid.View(), gridTitle, m.rightWidth(), gridHeight, m.focus == paneGrid),
		styles.Pane(m.info, "Info", m.rightWidth(), height-gridHeight, false),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) footerView() string {
	hint := "? help · q quit"
	if m.screen == screenCode {
		hint = "f format · i invert · m msb · s spacing · ctrl+e export · esc back"
	} else if label := m.session.UndoLabel(); label != "" {
		hint = "undo: " + label + " · " + hint
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		actionbar.View(m.state, m.width),
		styles.StatusBarStyle.MaxWidth(m.width).Render(hint),
	)
}
