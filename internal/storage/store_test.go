package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "chatSessionId", "123"))
	v, ok, err := s.Get(ctx, "chatSessionId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "123", v)

	require.NoError(t, s.Set(ctx, "chatSessionId", "456"))
	v, _, err = s.Get(ctx, "chatSessionId")
	require.NoError(t, err)
	assert.Equal(t, "456", v)

	require.NoError(t, s.Delete(ctx, "chatSessionId"))
	_, ok, err = s.Get(ctx, "chatSessionId")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "console.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "favorites", "[1,3]"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := second.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,3]", v)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), "user")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, Prefix: "bnl-test:"})
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestNamespaceIsolatesClients(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStore()
	a := Namespace(shared, "client-a")
	b := Namespace(shared, "client-b")

	require.NoError(t, a.Set(ctx, "user", "alice"))
	_, ok, err := b.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, _ := shared.Get(ctx, "client-a:user")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, SetJSON(ctx, s, "favorites", []int64{4, 2}))
	var got []int64
	ok, err := GetJSON(ctx, s, "favorites", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{4, 2}, got)

	ok, err = GetJSON(ctx, s, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "broken", "{"))
	_, err = GetJSON(ctx, s, "broken", &got)
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Driver: "etcd"})
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}

func TestOpenMemory(t *testing.T) {
	s, closer, err := Open(context.Background(), Options{Driver: DriverMemory})
	require.NoError(t, err)
	require.NotNil(t, closer)
	exerciseStore(t, s)
	assert.NoError(t, closer.Close())
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "console.db")
	s, closer, err := Open(context.Background(), Options{Driver: DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, s.Set(context.Background(), "chatSessionId", "42"))
	v, ok, err := s.Get(context.Background(), "chatSessionId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}
