// Package observability lets the CLI and server watch the pipeline, the
// cache and the document store without those packages knowing about any
// particular logging or metrics backend.
//
// A process installs one [Hooks] set at startup; library code reports
// through the package accessors:
//
//	observability.Install(observability.Hooks{Pipeline: h, Cache: h, Store: h})
//
//	observability.Pipeline().OnFlattenStart(ctx, doc.Name, len(doc.Entries))
//	observability.Cache().OnCacheMiss(ctx, "result")
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes flatten and render runs. Layout happens inside
// flatten, so it has no events of its own.
type PipelineHooks interface {
	OnFlattenStart(ctx context.Context, document string, entries int)
	OnFlattenComplete(ctx context.Context, document string, nodeCount int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes cache lookups. keyType is "result" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// StoreHooks observes document store calls; op is put, get, list, search or
// delete.
type StoreHooks interface {
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnFlattenStart(context.Context, string, int)                          {}
func (Noop) OnFlattenComplete(context.Context, string, int, time.Duration, error) {}
func (Noop) OnRenderStart(context.Context, []string)                              {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)     {}
func (Noop) OnCacheHit(context.Context, string)                                   {}
func (Noop) OnCacheMiss(context.Context, string)                                  {}
func (Noop) OnCacheSet(context.Context, string, int)                              {}
func (Noop) OnStoreOp(context.Context, string, string, time.Duration, error)      {}

// Hooks is the set installed for the process. Nil members are replaced
// with Noop.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	Store    StoreHooks
}

func (h Hooks) filled() *Hooks {
	if h.Pipeline == nil {
		h.Pipeline = Noop{}
	}
	if h.Cache == nil {
		h.Cache = Noop{}
	}
	if h.Store == nil {
		h.Store = Noop{}
	}
	return &h
}

var installed atomic.Pointer[Hooks]

func init() { installed.Store(Hooks{}.filled()) }

// Install replaces the process hooks and returns the previous set, which
// tests use to restore state.
func Install(h Hooks) Hooks {
	return *installed.Swap(h.filled())
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return installed.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return installed.Load().Cache }

// Store returns the installed store hooks.
func Store() StoreHooks { return installed.Load().Store }
