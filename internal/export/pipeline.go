package export

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fontedit/fontedit/internal/cachemanager"
	"github.com/fontedit/fontedit/internal/font"
	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/tracing"
)

// DefaultCacheTTL is how long rendered source stays cached.
const DefaultCacheTTL = 5 * time.Minute

// CacheKey identifies a rendering of a face with a set of options.
type CacheKey string

type renderRequest struct {
	face *font.Face
	opts Options
}

// Pipeline renders face snapshots, caching results by content.
type Pipeline struct {
	renderer Renderer
	cache    cachemanager.CacheManager[CacheKey, string]
	reader   *cachemanager.ReadThroughCache[CacheKey, string, renderRequest]
	ttl      time.Duration
	tracer   trace.Tracer
}

var _ Renderer = (*Pipeline)(nil)

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithCache sets the render cache and entry ttl.
func WithCache(cache cachemanager.CacheManager[CacheKey, string], ttl time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.cache = cache
		p.ttl = ttl
	}
}

// WithTracer records a span per render and write.
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// NewPipeline wraps renderer. Without WithCache an in-memory cache with
// DefaultCacheTTL is used.
func NewPipeline(renderer Renderer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{renderer: renderer, ttl: DefaultCacheTTL}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = cachemanager.NewInMemoryCacheManager[CacheKey, string]("export", p.ttl, cachemanager.DefaultCleanupInterval)
	}
	p.reader = cachemanager.NewReadThroughCache[CacheKey, string, renderRequest](p.cache, p.render, p.ttl <= 0)
	return p
}

// NewDefaultPipeline builds a pipeline over the embedded templates.
func NewDefaultPipeline(opts ...PipelineOption) (*Pipeline, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	return NewPipeline(renderer, opts...), nil
}

// Render returns source code for face. face must not be mutated while the
// call runs; callers pass a snapshot.
func (p *Pipeline) Render(ctx context.Context, face *font.Face, opts Options) (string, error) {
	if face == nil {
		return "", font.ErrEmptyFace
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}
	key := Fingerprint(face, opts)

	ctx, span := tracing.Start(ctx, p.tracer, tracing.SpanRenderSource,
		attribute.String(tracing.AttrFaceName, face.Name()),
		attribute.Int(tracing.AttrGlyphCount, face.Len()),
		attribute.String(tracing.AttrFormat, string(opts.Format)),
		attribute.String(tracing.AttrCacheKey, string(key)),
	)
	out, err := p.reader.Get(ctx, key, renderRequest{face: face, opts: opts}, p.ttl)
	tracing.End(span, err)
	if err != nil {
		log.ErrorErr(log.CatExport, "Render failed", err, "format", opts.Format)
		return "", err
	}
	return out, nil
}

func (p *Pipeline) render(ctx context.Context, req renderRequest) (string, error) {
	start := time.Now()
	out, err := p.renderer.Render(ctx, req.face, req.opts)
	if err != nil {
		return "", err
	}
	log.Debug(log.CatExport, "Rendered source", "name", req.face.Name(), "options", req.opts, "bytes", len(out), "took", time.Since(start))
	return out, nil
}

// WriteFile renders face and writes it to path atomically.
func (p *Pipeline) WriteFile(ctx context.Context, face *font.Face, opts Options, path string) error {
	src, err := p.Render(ctx, face, opts)
	if err != nil {
		return err
	}

	_, span := tracing.Start(ctx, p.tracer, tracing.SpanWriteSource,
		attribute.String(tracing.AttrPath, path),
		attribute.Int(tracing.AttrBytes, len(src)),
	)
	err = WriteFileAtomic(path, []byte(src))
	tracing.End(span, err)
	if err != nil {
		log.ErrorErr(log.CatExport, "Write source failed", err, "path", path)
		return err
	}
	log.Info(log.CatExport, "Exported source", "path", path, "format", opts.Format)
	return nil
}

// Invalidate drops all cached renderings.
func (p *Pipeline) Invalidate(ctx context.Context) error {
	return p.reader.Invalidate(ctx)
}

// Fingerprint hashes everything that affects the rendered output.
func Fingerprint(face *font.Face, opts Options) CacheKey {
	h := xxhash.New()
	_, _ = h.WriteString(face.Name())
	_, _ = h.WriteString(opts.String())

	var buf [8]byte
	size := face.GlyphSize()
	m := face.Margins()
	for _, v := range []int{size.Width, size.Height, m.Top, m.Bottom, face.Len()} {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	for _, g := range face.Glyphs() {
		binary.LittleEndian.PutUint64(buf[:], uint64(g.Code()))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(g.Name())
		_, _ = h.Write(g.Pixels().Pack())
	}
	return CacheKey(strconv.FormatUint(h.Sum64(), 16))
}

// WriteFileAtomic writes data to a temp file in path's directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
