package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fontedit/fontedit/internal/document"
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/store"
	"github.com/fontedit/fontedit/internal/tracing"
)

const documentColumns = `guid, name, point_size, glyph_width, glyph_height,
	margin_top, margin_bottom, active_glyph, created_at, updated_at`

// DocumentRepository implements store.Store with one SQLite file per
// document.
type DocumentRepository struct {
	tracer trace.Tracer
	now    func() time.Time
}

var _ store.Store = (*DocumentRepository)(nil)

// NewDocumentRepository creates a repository. tracer may be nil.
func NewDocumentRepository(tracer trace.Tracer) *DocumentRepository {
	return &DocumentRepository{tracer: tracer, now: time.Now}
}

func scanDocument(scanner interface{ Scan(...any) error }) (*DocumentModel, error) {
	var m DocumentModel
	err := scanner.Scan(
		&m.GUID, &m.Name, &m.PointSize, &m.GlyphWidth, &m.GlyphHeight,
		&m.MarginTop, &m.MarginBottom, &m.ActiveGlyph, &m.CreatedAt, &m.UpdatedAt,
	)
	return &m, err
}

func scanGlyph(scanner interface{ Scan(...any) error }) (*GlyphModel, error) {
	var m GlyphModel
	err := scanner.Scan(&m.Index, &m.Name, &m.Code, &m.Original, &m.Current)
	return &m, err
}

// Load reads the document at path.
func (r *DocumentRepository) Load(ctx context.Context, path string) (doc *document.Document, err error) {
	ctx, span := tracing.Start(ctx, r.tracer, tracing.SpanLoadDocument, attribute.String(tracing.AttrPath, path))
	defer func() { tracing.End(span, err) }()

	db, err := OpenReadOnly(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	model, err := scanDocument(db.conn.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM document WHERE id = 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document header missing: %w", store.ErrNotDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT idx, name, code, original, current FROM glyphs ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("failed to read glyphs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var glyphs []*GlyphModel
	for rows.Next() {
		g, err := scanGlyph(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan glyph: %w", err)
		}
		if g.Index != len(glyphs) {
			return nil, fmt.Errorf("glyph index %d out of sequence", g.Index)
		}
		glyphs = append(glyphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate glyphs: %w", err)
	}

	doc, err = model.toDomain(glyphs, path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrFaceName, model.Name),
		attribute.Int(tracing.AttrGlyphCount, len(glyphs)),
	)
	log.Info(log.CatStore, "Loaded document", "path", path, "glyphs", len(glyphs))
	return doc, nil
}

// Save writes doc into a temp file next to path and renames it into place.
// The guid and creation time of an existing file at path are kept.
func (r *DocumentRepository) Save(ctx context.Context, doc *document.Document, path string) (err error) {
	ctx, span := tracing.Start(ctx, r.tracer, tracing.SpanSaveDocument, attribute.String(tracing.AttrPath, path))
	defer func() { tracing.End(span, err) }()

	face := doc.Snapshot()
	if face == nil {
		return document.ErrNoFace
	}
	var active *int
	if i, ok := doc.ActiveGlyphIndex(); ok {
		active = &i
	}

	now := r.now()
	guid, createdAt := uuid.NewString(), now
	if h, err := r.Stat(ctx, path); err == nil {
		guid, createdAt = h.GUID, h.CreatedAt
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	db, err := NewDB(ctx, tmpPath)
	if err != nil {
		return err
	}
	if err := r.write(ctx, db, toDocumentModel(face, active, guid, createdAt, now), face.Glyphs()); err != nil {
		_ = db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}

	span.SetAttributes(
		attribute.String(tracing.AttrFaceName, face.Name()),
		attribute.Int(tracing.AttrGlyphCount, face.Len()),
	)
	log.Info(log.CatStore, "Saved document", "path", path, "guid", guid, "glyphs", face.Len())
	return nil
}

func (r *DocumentRepository) write(ctx context.Context, db *DB, model *DocumentModel, glyphs []*font.Glyph) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document (id, `+documentColumns+`) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		model.GUID, model.Name, model.PointSize, model.GlyphWidth, model.GlyphHeight,
		model.MarginTop, model.MarginBottom, model.ActiveGlyph, model.CreatedAt, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO glyphs (idx, name, code, original, current) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare glyph insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, g := range glyphs {
		m := toGlyphModel(i, g)
		if _, err := stmt.ExecContext(ctx, m.Index, m.Name, m.Code, m.Original, m.Current); err != nil {
			return fmt.Errorf("failed to insert glyph %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Stat reads the document header.
func (r *DocumentRepository) Stat(ctx context.Context, path string) (store.Header, error) {
	db, err := OpenReadOnly(ctx, path)
	if err != nil {
		return store.Header{}, err
	}
	defer func() { _ = db.Close() }()

	model, err := scanDocument(db.conn.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM document WHERE id = 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return store.Header{}, fmt.Errorf("document header missing: %w", store.ErrNotDocument)
	}
	if err != nil {
		return store.Header{}, fmt.Errorf("failed to read document: %w", err)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM glyphs`).Scan(&count); err != nil {
		return store.Header{}, fmt.Errorf("failed to count glyphs: %w", err)
	}
	return model.toHeader(count), nil
}
