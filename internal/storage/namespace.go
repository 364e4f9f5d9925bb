package storage

import "context"

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace scopes every key of inner under prefix, giving each web console
// client its own slice of a shared store.
func Namespace(inner Store, prefix string) Store {
	return &namespaced{inner: inner, prefix: prefix + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
