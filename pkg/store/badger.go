package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/service"
)

const badgerPrefix = "doc/"

// BadgerStore keeps documents as JSON values under "doc/<name>" keys in an
// embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a database in dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open badger at %q", dir)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Put(_ context.Context, doc service.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode %s", doc.Name)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerPrefix+doc.Name), data)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put %s", doc.Name)
	}
	return nil
}

func (s *BadgerStore) Get(_ context.Context, name string) (service.Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return service.Document{}, err
	}
	var doc service.Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err == badger.ErrKeyNotFound {
		return service.Document{}, notFound(name)
	}
	if err != nil {
		return service.Document{}, errors.Wrap(errors.ErrCodeStore, err, "get %s", name)
	}
	return doc, nil
}

func (s *BadgerStore) List(context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), badgerPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list")
	}
	slices.Sort(names)
	return names, nil
}

func (s *BadgerStore) Delete(_ context.Context, name string) error {
	key := []byte(badgerPrefix + name)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err == badger.ErrKeyNotFound {
		return notFound(name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", name)
	}
	return nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

var _ Store = (*BadgerStore)(nil)
