package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/service"
)

// MemoryStore keeps documents in a map. Documents are deep-copied on the way
// in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]service.Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]service.Document)}
}

func (s *MemoryStore) Put(_ context.Context, doc service.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Name] = doc.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (service.Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return service.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return service.Document{}, notFound(name)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) List(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.docs)), nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return notFound(name)
	}
	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
