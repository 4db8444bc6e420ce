// Package config loads svcgraph settings from defaults, an optional YAML file,
// a .env file and SVCGRAPH_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/matzehuels/svcgraph/pkg/cache"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/store"
)

// EnvPrefix prefixes every environment override, e.g. SVCGRAPH_SERVER_ADDR.
const EnvPrefix = "SVCGRAPH"

// DefaultAddr is the default API listen address.
const DefaultAddr = ":8080"

type Server struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type Cache struct {
	Backend string        `mapstructure:"backend" yaml:"backend"` // file | redis | none
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Prefix  string        `mapstructure:"prefix" yaml:"prefix"`
}

type Redis struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	DB   int    `mapstructure:"db" yaml:"db"`
}

type Store struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // memory | badger | mongo
	Path    string `mapstructure:"path" yaml:"path"`
}

type Mongo struct {
	URI      string `mapstructure:"uri" yaml:"uri"`
	Database string `mapstructure:"database" yaml:"database"`
}

type Layout struct {
	Direction string `mapstructure:"direction" yaml:"direction"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the complete configuration.
type Config struct {
	Server Server `mapstructure:"server" yaml:"server"`
	Cache  Cache  `mapstructure:"cache" yaml:"cache"`
	Redis  Redis  `mapstructure:"redis" yaml:"redis"`
	Store  Store  `mapstructure:"store" yaml:"store"`
	Mongo  Mongo  `mapstructure:"mongo" yaml:"mongo"`
	Layout Layout `mapstructure:"layout" yaml:"layout"`
	Log    Log    `mapstructure:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            DefaultAddr,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache:  Cache{Backend: string(cache.BackendFile), Dir: defaultCacheDir(), TTL: cache.TTLResult},
		Redis:  Redis{Addr: "localhost:6379"},
		Store:  Store{Backend: string(store.BackendMemory), Path: filepath.Join(defaultDataDir(), "documents")},
		Mongo:  Mongo{URI: store.DefaultMongoURI, Database: store.DefaultMongoDatabase},
		Layout: Layout{Direction: string(graph.DefaultDirection)},
		Log:    Log{Level: "info"},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "svcgraph")
	}
	return filepath.Join(os.TempDir(), "svcgraph-cache")
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "svcgraph")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return "./data"
	}
	return filepath.Join(home, ".local", "share", "svcgraph")
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "svcgraph")
	}
	return ""
}

// Load builds the configuration. When path is empty, svcgraph.yaml is looked
// up in the working directory and the user config directory; a missing file
// is not an error. A .env file in the working directory is loaded first and
// never overrides variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName("svcgraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override
// values that appear in no config file.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("server.addr", c.Server.Addr)
	v.SetDefault("server.read_timeout", c.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", c.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("cache.backend", c.Cache.Backend)
	v.SetDefault("cache.dir", c.Cache.Dir)
	v.SetDefault("cache.ttl", c.Cache.TTL)
	v.SetDefault("cache.prefix", c.Cache.Prefix)
	v.SetDefault("redis.addr", c.Redis.Addr)
	v.SetDefault("redis.db", c.Redis.DB)
	v.SetDefault("store.backend", c.Store.Backend)
	v.SetDefault("store.path", c.Store.Path)
	v.SetDefault("mongo.uri", c.Mongo.URI)
	v.SetDefault("mongo.database", c.Mongo.Database)
	v.SetDefault("layout.direction", c.Layout.Direction)
	v.SetDefault("log.level", c.Log.Level)
}

// Validate rejects unknown backends, directions and log levels.
func (c *Config) Validate() error {
	if _, err := cache.ParseBackend(c.Cache.Backend); err != nil {
		return fmt.Errorf("cache.backend: %q: %w", c.Cache.Backend, err)
	}
	switch store.Backend(c.Store.Backend) {
	case store.BackendMemory, store.BackendBadger, store.BackendMongo:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if _, err := graph.ParseDirection(c.Layout.Direction); err != nil {
		return fmt.Errorf("layout.direction: %w", err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// CacheConfig converts the cache settings for cache.Open.
func (c *Config) CacheConfig() cache.Config {
	b, _ := cache.ParseBackend(c.Cache.Backend)
	return cache.Config{
		Backend:   b,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Redis.Addr,
		RedisDB:   c.Redis.DB,
	}
}

// StoreConfig converts the store settings for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:       store.Backend(c.Store.Backend),
		Path:          c.Store.Path,
		MongoURI:      c.Mongo.URI,
		MongoDatabase: c.Mongo.Database,
	}
}
