package cmd

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/fontedit/fontedit/internal/cachemanager"
	"github.com/fontedit/fontedit/internal/clipboard"
	"github.com/fontedit/fontedit/internal/config"
	"github.com/fontedit/fontedit/internal/editor"
	"github.com/fontedit/fontedit/internal/export"
	"github.com/fontedit/fontedit/internal/infrastructure/sqlite"
	"github.com/fontedit/fontedit/internal/log"
)

// newPipeline builds the export pipeline with the configured cache ttl.
func newPipeline(c config.Config, tracer trace.Tracer) (*export.Pipeline, error) {
	ttl := c.Export.CacheTTL
	cache := cachemanager.NewInMemoryCacheManager[export.CacheKey, string]("export", ttl, cachemanager.DefaultCleanupInterval)
	return export.NewDefaultPipeline(
		export.WithCache(cache, ttl),
		export.WithTracer(tracer),
	)
}

// newSession wires an editor session from configuration. The OS clipboard
// is used when requested and available.
func newSession(c config.Config, tracer trace.Tracer, watch, systemClipboard bool) (*editor.Session, error) {
	pipeline, err := newPipeline(c, tracer)
	if err != nil {
		return nil, fmt.Errorf("creating export pipeline: %w", err)
	}

	opts := []editor.Option{
		editor.WithRenderer(pipeline),
		editor.WithStore(sqlite.NewDocumentRepository(tracer)),
		editor.WithFormatOptions(c.Export.Options()),
		editor.WithTracer(tracer),
	}
	if watch {
		opts = append(opts, editor.WithWatch(c.Editor.WatchDebounce))
	}
	if systemClipboard {
		if clipboard.Available() {
			opts = append(opts, editor.WithClipboard(clipboard.NewSystem()))
		} else {
			log.Info(log.CatConfig, "No system clipboard, copying within the session only")
		}
	}

	session, err := editor.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}
