package badger

import "github.com/poiesic/factmap/storage"

// NewMemoryEmbeddingCache creates an in-memory embedding cache for testing.
// Caller must close the backend when done.
func NewMemoryEmbeddingCache() (storage.EmbeddingCache, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	cache, err := NewEmbeddingCache(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return cache, backend, nil
}
