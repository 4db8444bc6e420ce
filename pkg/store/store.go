// Package store persists input documents by name.
//
// Three backends implement [Store]:
//
//   - [MemoryStore]: a map, for tests and the default server mode
//   - [BadgerStore]: an embedded badger database on local disk
//   - [MongoStore]: a MongoDB collection, one document per service graph
//
// Names are validated with errors.ValidateDocumentName before any backend
// sees them. A missing document is reported with code DOCUMENT_NOT_FOUND.
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/observability"
	"github.com/matzehuels/svcgraph/pkg/service"
)

// Store saves and loads service documents.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put inserts or replaces the document with doc.Name.
	Put(ctx context.Context, doc service.Document) error
	// Get returns the named document.
	Get(ctx context.Context, name string) (service.Document, error)
	// List returns all document names in ascending order.
	List(ctx context.Context) ([]string, error)
	// Delete removes the named document.
	Delete(ctx context.Context, name string) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Backends.
const (
	BackendMemory Backend = "memory"
	BackendBadger Backend = "badger"
	BackendMongo  Backend = "mongo"
)

// Config selects and configures a backend for [Open].
type Config struct {
	Backend       Backend
	Path          string // badger directory
	MongoURI      string
	MongoDatabase string
}

// Open creates the store described by cfg. The returned store reports every
// operation to the registered observability.StoreHooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory, "":
		s = NewMemoryStore()
	case BackendBadger:
		s, err = OpenBadger(cfg.Path)
	case BackendMongo:
		s, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, string(backendOrDefault(cfg.Backend))), nil
}

func backendOrDefault(b Backend) Backend {
	if b == "" {
		return BackendMemory
	}
	return b
}

// Search returns the names in s containing q, case-insensitively. An empty
// query returns every name.
func Search(ctx context.Context, s Store, q string) ([]string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return names, nil
	}
	return slices.DeleteFunc(names, func(n string) bool {
		return !strings.Contains(strings.ToLower(n), q)
	}), nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
}

// instrumented forwards to a Store and reports each call to the store hooks.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so every operation is reported to
// observability.Store() under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) report(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Put(ctx context.Context, doc service.Document) error {
	start := time.Now()
	err := s.Store.Put(ctx, doc)
	s.report(ctx, "put", start, err)
	return err
}

func (s *instrumented) Get(ctx context.Context, name string) (service.Document, error) {
	start := time.Now()
	doc, err := s.Store.Get(ctx, name)
	s.report(ctx, "get", start, err)
	return doc, err
}

func (s *instrumented) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.Store.List(ctx)
	s.report(ctx, "list", start, err)
	return names, err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, name)
	s.report(ctx, "delete", start, err)
	return err
}
