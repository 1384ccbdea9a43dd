package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	Logger *log.Logger
}

// UseLogger registers a [LogHooks] for all event categories.
func UseLogger(l *log.Logger) {
	h := &LogHooks{Logger: l.WithPrefix("hooks")}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, url string) {
	h.Logger.Debug("fetch start", "url", url)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, url string, size int, d time.Duration, err error) {
	h.done("fetch", err, "url", url, "bytes", size, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, tracks int) {
	h.Logger.Debug("layout start", "tracks", tracks)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, fontSize int, d time.Duration, err error) {
	h.done("layout", err, "font_size", fontSize, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.done("render", err, "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h *LogHooks) done(stage string, err error, kv ...any) {
	if err != nil {
		h.Logger.Debug(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.Logger.Debug(stage+" done", kv...)
}
