package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/storage"
)

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	f := NewFavorites(store)

	ids, err := f.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	added, err := f.Toggle(ctx, 3)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = f.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.True(t, added)

	ids, err = f.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids)

	raw, ok, err := store.Get(ctx, model.FavoritesKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[3,1]`, raw)

	added, err = f.Toggle(ctx, 3)
	require.NoError(t, err)
	assert.False(t, added)

	has, err := f.Contains(ctx, 3)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = f.Contains(ctx, 1)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = f.Toggle(ctx, 1)
	require.NoError(t, err)
	raw, _, _ = store.Get(ctx, model.FavoritesKey)
	assert.JSONEq(t, `[]`, raw)
}

func TestFavoritesCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, model.FavoritesKey, "nope"))

	_, err := NewFavorites(store).List(ctx)
	assert.Error(t, err)
}
