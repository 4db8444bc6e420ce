package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingCache struct {
	Noop
	hits, misses int
}

func (c *countingCache) OnCacheHit(context.Context, string)  { c.hits++ }
func (c *countingCache) OnCacheMiss(context.Context, string) { c.misses++ }

func TestInstall(t *testing.T) {
	ctx := context.Background()
	cc := &countingCache{}

	prev := Install(Hooks{Cache: cc})
	t.Cleanup(func() { Install(prev) })

	Cache().OnCacheHit(ctx, "result")
	Cache().OnCacheMiss(ctx, "artifact")
	Cache().OnCacheMiss(ctx, "artifact")
	if cc.hits != 1 || cc.misses != 2 {
		t.Errorf("hits=%d misses=%d, want 1/2", cc.hits, cc.misses)
	}

	if _, ok := Pipeline().(Noop); !ok {
		t.Errorf("unset Pipeline = %T, want Noop", Pipeline())
	}
	if _, ok := Store().(Noop); !ok {
		t.Errorf("unset Store = %T, want Noop", Store())
	}
	Store().OnStoreOp(ctx, "memory", "get", time.Millisecond, nil)
}

func TestInstallReturnsPrevious(t *testing.T) {
	first := &countingCache{}
	orig := Install(Hooks{Cache: first})
	t.Cleanup(func() { Install(orig) })

	prev := Install(Hooks{})
	if prev.Cache != first {
		t.Errorf("Install returned Cache %T, want the first set", prev.Cache)
	}
	if _, ok := Cache().(Noop); !ok {
		t.Errorf("Cache after empty Install = %T, want Noop", Cache())
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnFlattenComplete(ctx, "platform", 7, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "artifact")
	h.OnStoreOp(ctx, "badger", "put", time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{"flatten done", "document=platform", "render failed", "boom", "cache hit", "store put done", "backend=badger"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheMiss(context.Background(), "result")
	h.OnFlattenStart(context.Background(), "platform", 3)
	if buf.Len() != 0 {
		t.Errorf("debug events leaked at info level: %q", buf.String())
	}
}
