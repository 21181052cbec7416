// Package observability lets geco report fetches, layout passes, renders,
// cache traffic and backend calls without depending on a metrics backend.
//
// Libraries emit events through the registered hooks:
//
//	observability.Pipeline().OnFetchStart(ctx, "remote", q.Key())
//	b, err := fetcher.Fetch(ctx, req)
//	observability.Pipeline().OnFetchComplete(ctx, "remote", q.Key(), b.Dataset.Len(), time.Since(start), err)
//
// Every hook is a no-op until an application installs an implementation,
// once, at startup. `geco serve` installs [LogHooks]:
//
//	observability.NewLogHooks(logger).Register()
//	defer observability.Reset()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the load, layout and render stages.
type PipelineHooks interface {
	OnFetchStart(ctx context.Context, source, query string)
	OnFetchComplete(ctx context.Context, source, query string, rows int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, notation string, rows int)
	OnLayoutComplete(ctx context.Context, notation string, glyphs int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is one of
// "dataset", "layout", "artifact" or a fetch resource name.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives the requests of the backend client.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError reports transport failures; HTTP error statuses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// hookSet is replaced as a whole, so readers never see a partial update.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var registry atomic.Pointer[hookSet]

func init() { Reset() }

func current() hookSet { return *registry.Load() }

func update(fn func(*hookSet)) {
	for {
		old := registry.Load()
		next := *old
		fn(&next)
		if registry.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h; nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks installs h; nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks installs h; nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current().http }

// Reset restores the no-op hooks.
func Reset() {
	registry.Store(&hookSet{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
