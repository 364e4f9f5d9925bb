package catalog

// Store exposes catalog retrieval for the products endpoint.
type Store interface {
	List() []ProductFromAPI
	FindByID(id int64) (ProductFromAPI, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []ProductFromAPI
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied products.
func NewMemoryStore(items []ProductFromAPI) *MemoryStore {
	return &MemoryStore{items: append([]ProductFromAPI(nil), items...)}
}

// List returns every product in catalog order.
func (s *MemoryStore) List() []ProductFromAPI {
	return append([]ProductFromAPI(nil), s.items...)
}

// FindByID looks up a product by identifier.
func (s *MemoryStore) FindByID(id int64) (ProductFromAPI, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return ProductFromAPI{}, false
}
