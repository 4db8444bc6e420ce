package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks emits every event as a debug line on a charm logger.
// It implements PipelineHooks, CacheHooks and StoreHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnFlattenStart(_ context.Context, document string, entries int) {
	h.logger.Debug("flatten start", "document", document, "entries", entries)
}

func (h *LogHooks) OnFlattenComplete(_ context.Context, document string, nodeCount int, d time.Duration, err error) {
	h.done("flatten", d, err, "document", document, "nodes", nodeCount)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	h.done("store "+op, d, err, "backend", backend)
}

func (h *LogHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d)
	if err != nil {
		h.logger.Warn(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" done", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
)
