// Package editor implements the editing session behind the shell. A Session
// owns the open document and its collaborators, turns user intents into
// undoable commands, derives which actions are enabled and publishes what
// changed on a broker.
//
// A Session is not safe for concurrent use. All methods are called from the
// shell's update loop; observations are delivered through Broker.
package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fontedit/fontedit/internal/clipboard"
	"github.com/fontedit/fontedit/internal/document"
	"github.com/fontedit/fontedit/internal/export"
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/importer"
	"github.com/fontedit/fontedit/internal/infrastructure/sqlite"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/pubsub"
	"github.com/fontedit/fontedit/internal/store"
	"github.com/fontedit/fontedit/internal/tracing"
	"github.com/fontedit/fontedit/internal/uistate"
	"github.com/fontedit/fontedit/internal/watcher"
)

// AppName is the window title without a document.
const AppName = "fontedit"

const editedSuffix = " - Edited"

// sourceWriter is implemented by renderers that can write their output,
// such as *export.Pipeline.
type sourceWriter interface {
	WriteFile(ctx context.Context, face *font.Face, opts export.Options, path string) error
}

// Session is the editor's main model.
type Session struct {
	doc       *document.Document
	machine   *uistate.Machine
	clipboard clipboard.Clipboard
	importer  importer.Importer
	store     store.Store
	renderer  export.Renderer
	format    export.Options
	tracer    trace.Tracer
	broker    *pubsub.Broker[Event]
	title     string

	watch       bool
	debounce    time.Duration
	watcher     *watcher.Watcher
	stopForward context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithClipboard sets the clipboard. Defaults to an in-process clipboard.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *Session) { s.clipboard = c }
}

// WithImporter sets the font importer. Defaults to importer.New().
func WithImporter(i importer.Importer) Option {
	return func(s *Session) { s.importer = i }
}

// WithStore sets the document store. Defaults to the SQLite store.
func WithStore(st store.Store) Option {
	return func(s *Session) { s.store = st }
}

// WithRenderer sets the source code renderer. Defaults to the cached
// template pipeline.
func WithRenderer(r export.Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// WithFormatOptions sets the initial export options.
func WithFormatOptions(opts export.Options) Option {
	return func(s *Session) { s.format = opts }
}

// WithTracer traces imports, loads, saves and renders.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) { s.tracer = tracer }
}

// WithWatch enables EventDocumentChangedOnDisk for the backing file.
func WithWatch(debounce time.Duration) Option {
	return func(s *Session) {
		s.watch = true
		s.debounce = debounce
	}
}

// New creates a session with no document.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		doc:    document.New(),
		format: export.DefaultOptions(),
		broker: pubsub.NewBroker[Event](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.format.Validate(); err != nil {
		return nil, err
	}
	if s.clipboard == nil {
		s.clipboard = clipboard.NewMemory()
	}
	if s.importer == nil {
		s.importer = importer.New()
	}
	if s.store == nil {
		s.store = sqlite.NewDocumentRepository(s.tracer)
	}
	if s.renderer == nil {
		p, err := export.NewDefaultPipeline(export.WithTracer(s.tracer))
		if err != nil {
			return nil, fmt.Errorf("creating export pipeline: %w", err)
		}
		s.renderer = p
	}
	s.machine = uistate.NewMachine(s.shape)
	s.title = s.Title()
	return s, nil
}

// Broker returns the broker observations are published on.
func (s *Session) Broker() *pubsub.Broker[Event] { return s.broker }

// Close stops watching and closes the broker.
func (s *Session) Close() {
	s.stopWatching()
	s.broker.Close()
}

func (s *Session) shape() uistate.Shape {
	_, active := s.doc.ActiveGlyphIndex()
	h := s.doc.History()
	return uistate.Shape{
		HasFace:             s.doc.HasFace(),
		HasActiveGlyph:      active,
		DocumentModified:    s.doc.IsModified(),
		ActiveGlyphModified: s.doc.IsActiveGlyphModified(),
		CanUndo:             h.CanUndo(),
		CanRedo:             h.CanRedo(),
		HasClipboard:        s.clipboard.HasPayload(),
	}
}

// UIState returns the enabled actions.
func (s *Session) UIState() uistate.State { return s.machine.State() }

// RegisterInputEvent recomputes the enabled actions and publishes
// EventUIStateChanged when they changed. The session registers its own
// events; shells call this for actions handled outside the session.
func (s *Session) RegisterInputEvent(event uistate.InputEvent) {
	if state, changed := s.machine.Register(event); changed {
		s.publish(Event{Type: EventUIStateChanged, State: state})
	}
	s.refreshTitle()
}

func (s *Session) publish(e Event) {
	s.broker.Publish(pubsub.UpdatedEvent, e)
}

// fail logs err, publishes it as EventDocumentError and returns it.
func (s *Session) fail(err error) error {
	log.ErrorErr(log.CatDocument, "Document error", err)
	s.broker.Publish(pubsub.ErrorEvent, Event{Type: EventDocumentError, Err: err})
	return &reportedError{err: err}
}

func (s *Session) refreshTitle() {
	if title := s.Title(); title != s.title {
		s.title = title
		s.publish(Event{Type: EventDocumentTitleChanged, Title: title})
	}
}

func (s *Session) publishActiveGlyph(index int) {
	g, err := s.doc.Glyph(index)
	if err != nil {
		return
	}
	s.publish(Event{Type: EventActiveGlyphChanged, GlyphIndex: index, Glyph: g})
}

func (s *Session) publishGlyph(index int) {
	g, err := s.doc.Glyph(index)
	if err != nil {
		return
	}
	s.publish(Event{Type: EventGlyphChanged, GlyphIndex: index, Glyph: g})
}

// replace installs doc as the open document.
func (s *Session) replace(doc *document.Document) {
	s.stopWatching()
	s.doc = doc
	if doc.Path() != "" {
		s.startWatching(doc.Path())
	}
	s.publish(Event{Type: EventFaceLoaded, Info: doc.Info()})
	s.RegisterInputEvent(uistate.LoadedFace)
}

// ImportFont rasterizes a font into a new unsaved document. On failure the
// open document is kept.
func (s *Session) ImportFont(ctx context.Context, desc importer.Descriptor) error {
	ctx, span := tracing.Start(ctx, s.tracer, tracing.SpanImportFont,
		attribute.String(tracing.AttrPath, desc.Path),
	)
	face, err := s.importer.Import(ctx, desc)
	if err == nil {
		span.SetAttributes(
			attribute.String(tracing.AttrFaceName, face.Name()),
			attribute.Int(tracing.AttrGlyphCount, face.Len()),
			attribute.String(tracing.AttrGlyphSize, face.GlyphSize().String()),
		)
	}
	tracing.End(span, err)
	if err != nil {
		return s.fail(&ImportError{Path: desc.Path, Err: err})
	}

	doc := document.New()
	if err := doc.ImportFace(face); err != nil {
		return s.fail(&ImportError{Path: desc.Path, Err: err})
	}
	s.replace(doc)
	return nil
}

// OpenDocument loads a saved document. A persisted selection is restored.
func (s *Session) OpenDocument(ctx context.Context, path string) error {
	doc, err := s.store.Load(ctx, path)
	if err != nil {
		return s.fail(&LoadError{Path: path, Err: err})
	}
	s.replace(doc)
	if i, ok := doc.ActiveGlyphIndex(); ok {
		s.publishActiveGlyph(i)
		s.RegisterInputEvent(uistate.LoadedGlyph)
	}
	return nil
}

// SaveDocument writes the document to path, or to its current path when
// path is empty.
func (s *Session) SaveDocument(ctx context.Context, path string) error {
	if !s.doc.HasFace() {
		return ErrNoDocument
	}
	if path == "" {
		path = s.doc.Path()
	}
	if path == "" {
		return ErrNoPath
	}

	s.ignoreOwnWrite()
	if err := s.store.Save(ctx, s.doc, path); err != nil {
		return s.fail(&SaveError{Path: path, Err: err})
	}
	s.ignoreOwnWrite()

	previous := s.doc.Path()
	s.doc.MarkSaved(path)
	if previous != path {
		s.stopWatching()
		s.startWatching(path)
	}
	log.Info(log.CatDocument, "Saved document", "path", path)
	s.RegisterInputEvent(uistate.Save)
	return nil
}

// CloseDocument drops the open document. It does not ask about unsaved
// changes; the shell checks IsModifiedSinceSave first.
func (s *Session) CloseDocument() {
	if !s.doc.HasFace() {
		return
	}
	s.stopWatching()
	s.doc.Close()
	s.publish(Event{Type: EventDocumentClosed})
	s.RegisterInputEvent(uistate.Idle)
}

// SwitchActiveGlyph selects glyph i. The first selection after a load is
// direct; later switches are undoable. Selecting the active glyph again is
// a no-op.
func (s *Session) SwitchActiveGlyph(i int) error {
	if !s.doc.HasFace() {
		return ErrNoDocument
	}
	current, has := s.doc.ActiveGlyphIndex()
	switch {
	case has && current == i:
		return nil
	case !has:
		if err := s.doc.SetActiveGlyphIndex(i); err != nil {
			log.Debug(log.CatDocument, "Rejected glyph selection", "index", i, "error", err)
			return err
		}
	default:
		if err := s.doc.History().Push(&switchCommand{doc: s.doc, from: current, to: i}); err != nil {
			return err
		}
	}
	s.publishActiveGlyph(i)
	s.RegisterInputEvent(uistate.LoadedGlyph)
	return nil
}

func (s *Session) activeIndex() (int, error) {
	if !s.doc.HasFace() {
		return 0, ErrNoDocument
	}
	i, ok := s.doc.ActiveGlyphIndex()
	if !ok {
		return 0, ErrNoActiveGlyph
	}
	return i, nil
}

func (s *Session) activeGlyph() (int, *font.Glyph, error) {
	i, err := s.activeIndex()
	if err != nil {
		return 0, nil, err
	}
	g, err := s.doc.Glyph(i)
	if err != nil {
		return 0, nil, err
	}
	return i, g, nil
}

// EditGlyph applies change to the active glyph as an undoable edit. An
// empty change is ignored.
func (s *Session) EditGlyph(change font.BatchPixelChange) error {
	i, err := s.activeIndex()
	if err != nil {
		return err
	}
	return s.pushGlyphChange(i, change, LabelEditGlyph, uistate.EditedGlyph)
}

// TogglePixel flips one pixel of the active glyph.
func (s *Session) TogglePixel(x, y int) error {
	i, g, err := s.activeGlyph()
	if err != nil {
		return err
	}
	change, err := font.Toggle(g.Pixels(), x, y)
	if err != nil {
		return err
	}
	return s.pushGlyphChange(i, change, LabelEditGlyph, uistate.EditedGlyph)
}

// SetPixels replaces the active glyph's bitmap with grid as one edit.
func (s *Session) SetPixels(grid *font.PixelGrid) error {
	i, g, err := s.activeGlyph()
	if err != nil {
		return err
	}
	change, err := font.Diff(g.Pixels(), grid)
	if err != nil {
		return err
	}
	return s.pushGlyphChange(i, change, LabelEditGlyph, uistate.EditedGlyph)
}

// ResetGlyph restores the active glyph's original bitmap. It is undoable.
func (s *Session) ResetGlyph() error {
	i, err := s.activeIndex()
	if err != nil {
		return err
	}
	change, err := s.doc.ResetGlyphChange(i)
	if err != nil {
		return err
	}
	return s.pushGlyphChange(i, change, LabelResetGlyph, uistate.ResetGlyph)
}

func (s *Session) pushGlyphChange(i int, change font.BatchPixelChange, label string, event uistate.InputEvent) error {
	if change.IsEmpty() {
		return nil
	}
	cmd := &glyphCommand{doc: s.doc, index: i, change: change, label: label}
	if err := s.doc.History().Push(cmd); err != nil {
		return err
	}
	s.publishGlyph(i)
	s.RegisterInputEvent(event)
	return nil
}

// ResetFont restores every glyph and clears the undo history. It cannot be
// undone; the shell confirms it first.
func (s *Session) ResetFont() error {
	if err := s.doc.ResetFace(); err != nil {
		return ErrNoDocument
	}
	s.publish(Event{Type: EventFaceLoaded, Info: s.doc.Info()})
	if i, ok := s.doc.ActiveGlyphIndex(); ok {
		s.publishGlyph(i)
	}
	s.RegisterInputEvent(uistate.ResetFont)
	return nil
}

// Copy puts the active glyph on the clipboard.
func (s *Session) Copy() error {
	_, g, err := s.activeGlyph()
	if err != nil {
		return err
	}
	if err := s.clipboard.Copy(g); err != nil {
		return s.fail(&ClipboardError{Op: "copy", Err: err})
	}
	s.RegisterInputEvent(uistate.Copy)
	return nil
}

// Paste replaces the active glyph's pixels with the clipboard glyph as an
// undoable edit. The clipboard glyph must have the face's glyph size.
func (s *Session) Paste() error {
	i, g, err := s.activeGlyph()
	if err != nil {
		return err
	}
	grid, ok, err := s.clipboard.Paste()
	if err != nil {
		return s.fail(&ClipboardError{Op: "paste", Err: err})
	}
	if !ok {
		return ErrEmptyClipboard
	}
	if !grid.SameSize(g.Pixels()) {
		return s.fail(fmt.Errorf("paste %dx%d glyph into %dx%d face: %w",
			grid.Width(), grid.Height(), g.Width(), g.Height(), font.ErrSizeMismatch))
	}
	change, err := font.Diff(g.Pixels(), grid)
	if err != nil {
		return err
	}
	return s.pushGlyphChange(i, change, LabelPasteGlyph, uistate.Paste)
}

// Undo reverts the most recent command.
func (s *Session) Undo() error {
	return s.step(uistate.Undo, s.doc.History().Undo)
}

// Redo re-applies the most recently undone command.
func (s *Session) Redo() error {
	return s.step(uistate.Redo, s.doc.History().Redo)
}

// step runs an undo or redo and publishes the selection or glyph it
// touched. Commands always act on the glyph that is active when they run.
func (s *Session) step(action uistate.InterfaceAction, run func() error) error {
	before, had := s.doc.ActiveGlyphIndex()
	if err := run(); err != nil {
		return s.fail(err)
	}
	if after, has := s.doc.ActiveGlyphIndex(); has {
		if !had || after != before {
			s.publishActiveGlyph(after)
		} else {
			s.publishGlyph(after)
		}
	}
	s.RegisterInputEvent(action)
	return nil
}

// UndoLabel returns the label of the command Undo would revert.
func (s *Session) UndoLabel() string { return s.doc.History().UndoLabel() }

// RedoLabel returns the label of the command Redo would re-apply.
func (s *Session) RedoLabel() string { return s.doc.History().RedoLabel() }

// FormatOptions returns the export options.
func (s *Session) FormatOptions() export.Options { return s.format }

// SetFormatOptions changes the export options used by SourceCode and
// ExportTo.
func (s *Session) SetFormatOptions(opts export.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.format = opts
	log.Debug(log.CatExport, "Format options changed", "options", opts)
	return nil
}

// SourceCode renders the document with the current format options from a
// snapshot of the face and publishes EventSourceCodeChanged.
func (s *Session) SourceCode(ctx context.Context) (string, error) {
	face := s.doc.Snapshot()
	if face == nil {
		return "", ErrNoDocument
	}
	src, err := s.renderer.Render(ctx, face, s.format)
	if err != nil {
		return "", s.fail(&ExportError{Err: err})
	}
	s.publish(Event{Type: EventSourceCodeChanged, Source: src})
	s.RegisterInputEvent(uistate.TabCode)
	return src, nil
}

// ExportTo writes the rendered source code to path atomically.
func (s *Session) ExportTo(ctx context.Context, path string) error {
	face := s.doc.Snapshot()
	if face == nil {
		return ErrNoDocument
	}
	var err error
	if w, ok := s.renderer.(sourceWriter); ok {
		err = w.WriteFile(ctx, face, s.format, path)
	} else {
		var src string
		if src, err = s.renderer.Render(ctx, face, s.format); err == nil {
			err = export.WriteFileAtomic(path, []byte(src))
		}
	}
	if err != nil {
		return s.fail(&ExportError{Path: path, Err: err})
	}
	s.RegisterInputEvent(uistate.Export)
	return nil
}

// Title is the document name, followed by " - Edited" when there are
// unsaved changes.
func (s *Session) Title() string {
	if !s.doc.HasFace() {
		return AppName
	}
	name := s.doc.Info().FontName
	if p := s.doc.Path(); p != "" {
		name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	if s.doc.IsModifiedSinceSave() {
		name += editedSuffix
	}
	return name
}

// FaceInfo summarizes the open face.
func (s *Session) FaceInfo() font.Info { return s.doc.Info() }

// HasDocument reports whether a face is loaded.
func (s *Session) HasDocument() bool { return s.doc.HasFace() }

// Path returns the backing file of the document, if saved.
func (s *Session) Path() string { return s.doc.Path() }

// IsModifiedSinceSave reports whether closing would lose changes.
func (s *Session) IsModifiedSinceSave() bool { return s.doc.IsModifiedSinceSave() }

// GlyphCount returns the number of glyphs in the face.
func (s *Session) GlyphCount() int { return s.doc.GlyphCount() }

// Glyph returns a copy of glyph i.
func (s *Session) Glyph(i int) (*font.Glyph, error) { return s.doc.Glyph(i) }

// IsGlyphModified reports whether glyph i differs from its original.
func (s *Session) IsGlyphModified(i int) bool { return s.doc.IsGlyphModified(i) }

// ModifiedLabels returns the labels of glyphs that differ from their
// original, in face order.
func (s *Session) ModifiedLabels() []string {
	var out []string
	for i := range s.doc.GlyphCount() {
		if !s.doc.IsGlyphModified(i) {
			continue
		}
		if g, err := s.doc.Glyph(i); err == nil {
			out = append(out, g.Label())
		}
	}
	return out
}

// ActiveGlyph returns the selected glyph index and a copy of the glyph.
func (s *Session) ActiveGlyph() (int, *font.Glyph, bool) {
	i, g, err := s.activeGlyph()
	return i, g, err == nil
}

// Margins returns the face margins.
func (s *Session) Margins() font.Margins { return s.doc.Margins() }

// Snapshot returns a deep copy of the face, or nil without one.
func (s *Session) Snapshot() *font.Face { return s.doc.Snapshot() }
