package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/service"
)

func sampleDoc(name string) service.Document {
	return service.Document{Name: name, Entries: []service.Entry{
		{Name: "gateway", Output: service.Ref("orders")},
		{Name: "orders", Children: []service.ChildGroup{{
			IDStuff: "g1",
			Childs: []service.Entry{
				{Name: "validate"},
				{Name: "persist", Input: service.Ref("validate")},
			},
		}}},
	}}
}

// backends returns every backend that runs without external services.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	b, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	disk, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = disk.Close() })

	return map[string]Store{
		"memory":      NewMemoryStore(),
		"badger-mem":  b,
		"badger-disk": disk,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, sampleDoc("payments")))

			got, err := s.Get(ctx, "payments")
			require.NoError(t, err)
			assert.Equal(t, "payments", got.Name)
			require.Len(t, got.Entries, 2)
			assert.Equal(t, "orders", got.Entries[0].OutputRef())
			require.Len(t, got.Entries[1].Children, 1)
			assert.Equal(t, "validate", got.Entries[1].Children[0].Childs[1].InputRef())
		})
	}
}

func TestStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, sampleDoc("d")))
			require.NoError(t, s.Put(ctx, service.Document{Name: "d", Entries: []service.Entry{{Name: "only"}}}))

			got, err := s.Get(ctx, "d")
			require.NoError(t, err)
			require.Len(t, got.Entries, 1)
			assert.Equal(t, "only", got.Entries[0].Name)
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"zeta", "alpha", "Billing"} {
				require.NoError(t, s.Put(ctx, sampleDoc(n)))
			}

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Billing", "alpha", "zeta"}, names)

			require.NoError(t, s.Delete(ctx, "alpha"))
			names, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Billing", "zeta"}, names)

			err = s.Delete(ctx, "alpha")
			assert.True(t, errors.Is(err, errors.ErrCodeDocumentNotFound), "got %v", err)
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "nope")
			assert.True(t, errors.Is(err, errors.ErrCodeDocumentNotFound), "got %v", err)
		})
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Put(ctx, service.Document{Name: "../etc/passwd"})
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidName), "got %v", err)

			err = s.Put(ctx, service.Document{Name: "ok", Entries: []service.Entry{{Name: ""}}})
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

			_, err = s.Get(ctx, "")
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidName), "got %v", err)
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := sampleDoc("iso")
	require.NoError(t, s.Put(ctx, doc))

	doc.Entries[0].Name = "mutated"
	got, err := s.Get(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "gateway", got.Entries[0].Name)

	got.Entries[0].Name = "mutated"
	again, err := s.Get(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "gateway", again.Entries[0].Name)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, n := range []string{"payments", "Payroll", "search"} {
		require.NoError(t, s.Put(ctx, sampleDoc(n)))
	}

	tests := []struct {
		q    string
		want []string
	}{
		{"", []string{"Payroll", "payments", "search"}},
		{"PAY", []string{"Payroll", "payments"}},
		{"arc", []string{"search"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, err := Search(ctx, s, tt.q)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, sampleDoc("x")))
	_, err = s.Get(ctx, "x")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Config{Backend: BackendBadger, Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Backend: "sqlite"})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "got %v", err)
}
