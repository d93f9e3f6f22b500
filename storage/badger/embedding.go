package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/factmap/core"
	"github.com/poiesic/factmap/storage"
)

// deleteBatchSize bounds the number of deletes per transaction.
const deleteBatchSize = 1000

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
type EmbeddingCache struct {
	backend *Backend
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache creates an embedding cache on backend.
// The backend is owned by the caller.
func NewEmbeddingCache(backend *Backend) (storage.EmbeddingCache, error) {
	return &EmbeddingCache{
		backend: backend,
	}, nil
}

// Close releases resources. EmbeddingCache has no resources to release.
func (c *EmbeddingCache) Close() error {
	return nil
}

// GetEmbeddings looks up cached vectors for model.
func (c *EmbeddingCache) GetEmbeddings(ctx context.Context, model string, ids ...core.ID) (map[core.ID][]float32, error) {
	found := make(map[core.ID][]float32, len(ids))

	err := c.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			if _, ok := found[id]; ok {
				continue
			}
			embedding, err := readEmbedding(tx, makeEmbeddingKey(model, id))
			if err != nil {
				return err
			}
			if embedding != nil {
				found[id] = embedding.Vector
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return found, nil
}

// PutEmbeddings stores embeddings in a single transaction.
func (c *EmbeddingCache) PutEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	now := time.Now().UTC()

	return c.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, embedding := range embeddings {
			if embedding.InsertedAt.IsZero() {
				embedding.InsertedAt = now
			}
			key := makeEmbeddingKey(embedding.Model, embedding.ID)
			if err := tx.Set(key, storage.MarshalEmbedding(embedding)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountEmbeddings returns the number of vectors cached for model.
func (c *EmbeddingCache) CountEmbeddings(ctx context.Context, model string) (int, error) {
	keys, err := c.modelKeys(ctx, model)
	return len(keys), err
}

// DeleteModel removes every vector cached for model.
func (c *EmbeddingCache) DeleteModel(ctx context.Context, model string) (int, error) {
	keys, err := c.modelKeys(ctx, model)
	if err != nil {
		return 0, err
	}

	for start := 0; start < len(keys); start += deleteBatchSize {
		batch := keys[start:min(start+deleteBatchSize, len(keys))]
		err := c.backend.WithTx(ctx, func(tx *badger.Txn) error {
			for _, key := range batch {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return start, err
		}
	}

	c.backend.logger.Info("deleted cached embeddings", "model", model, "count", len(keys))
	return len(keys), nil
}

// modelKeys collects the keys of every embedding cached for model.
// Keys of models whose name extends this one are skipped by length.
func (c *EmbeddingCache) modelKeys(ctx context.Context, model string) ([][]byte, error) {
	prefix := makeModelPrefix(model)
	keyLen := len(prefix) + 8
	var keys [][]byte

	err := c.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := iter.Item().KeyCopy(nil)
			if len(key) == keyLen {
				keys = append(keys, key)
			}
		}
		return nil
	}, false)

	return keys, err
}

// readEmbedding reads an embedding by key. Returns nil if the key is absent.
func readEmbedding(tx *badger.Txn, key []byte) (*core.Embedding, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var embedding *core.Embedding
	err = item.Value(func(val []byte) error {
		var err error
		embedding, err = storage.UnmarshalEmbedding(val)
		return err
	})
	return embedding, err
}
