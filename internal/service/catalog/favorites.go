package catalog

import (
	"context"
	"fmt"
	"slices"

	model "github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/storage"
)

// Favorites persists the favorited product ids of one client.
type Favorites struct {
	store storage.Store
}

// NewFavorites returns Favorites backed by store.
func NewFavorites(store storage.Store) *Favorites {
	return &Favorites{store: store}
}

// List returns the favorited ids in the order they were added.
func (f *Favorites) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	if _, err := storage.GetJSON(ctx, f.store, model.FavoritesKey, &ids); err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	return ids, nil
}

// Contains reports whether id is a favorite.
func (f *Favorites) Contains(ctx context.Context, id int64) (bool, error) {
	ids, err := f.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Toggle adds or removes id and reports whether it is now a favorite.
func (f *Favorites) Toggle(ctx context.Context, id int64) (bool, error) {
	ids, err := f.List(ctx)
	if err != nil {
		return false, err
	}

	added := true
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		added = false
	} else {
		ids = append(ids, id)
	}
	if ids == nil {
		ids = []int64{}
	}

	if err := storage.SetJSON(ctx, f.store, model.FavoritesKey, ids); err != nil {
		return false, fmt.Errorf("write favorites: %w", err)
	}
	return added, nil
}
