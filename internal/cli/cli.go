// Package cli implements the svcgraph command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svcgraph/internal/config"
	"github.com/matzehuels/svcgraph/pkg/cache"
	"github.com/matzehuels/svcgraph/pkg/observability"
	"github.com/matzehuels/svcgraph/pkg/pipeline"
	"github.com/matzehuels/svcgraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "svcgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() *config.Config { return c.cfg }

// loadConfig reads the config file and environment, then registers logging
// hooks so cache and pipeline events appear at debug level. The configured
// log level applies unless verbose forces debug.
func (c *CLI) loadConfig(verbose bool) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	switch lvl, err := log.ParseLevel(cfg.Log.Level); {
	case verbose:
		c.SetLogLevel(LogDebug)
	case err == nil:
		c.SetLogLevel(lvl)
	}

	hooks := observability.NewLogHooks(c.Logger)
	observability.Install(observability.Hooks{Pipeline: hooks, Cache: hooks, Store: hooks})
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix)
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	if c.cfg.Cache.TTL > 0 {
		r.TTL = c.cfg.Cache.TTL
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.cfg.CacheConfig())
	if err != nil {
		// The CLI keeps working without a cache.
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg.StoreConfig())
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() string {
	return c.cfg.Cache.Dir
}
