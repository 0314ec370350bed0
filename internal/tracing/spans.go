package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	SpanImportFont   = "import.font"
	SpanLoadDocument = "store.load"
	SpanSaveDocument = "store.save"
	SpanRenderSource = "export.render"
	SpanWriteSource  = "export.write"
)

// Span attribute keys.
const (
	AttrFaceName   = "face.name"
	AttrGlyphCount = "face.glyphs"
	AttrGlyphSize  = "face.glyph_size"
	AttrPath       = "document.path"
	AttrFormat     = "export.format"
	AttrOptions    = "export.options"
	AttrCacheKey   = "export.cache_key"
	AttrBytes      = "export.bytes"
)

// Start begins a span on tracer, falling back to a no-op tracer when
// tracer is nil.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span, sets its status and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
